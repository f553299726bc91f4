// Package http exposes a notebook over a JSON API, with a server-sent event
// stream of run-lock transitions and a Prometheus metrics endpoint.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scriptcell/scriptcell/internal/logging"
	"github.com/scriptcell/scriptcell/internal/runtime"
	"github.com/scriptcell/scriptcell/pkg/cell"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

// Notebook is the facade view this server needs.
type Notebook interface {
	Cells() []*cell.Cell
	Cell(id string) (*cell.Cell, error)
	RunBlock(ctx context.Context, id string, block int) (domain.Outcome, error)
	RunSelection(ctx context.Context, id string, block int) (domain.Outcome, error)
	ResetCell(ctx context.Context, id string, block int) error
	SetSource(id string, block int, text string) error
	Source(id string, block int) (string, error)
	AppendBlock(id string) (int, error)
	RequestFeedback(ctx context.Context, id string, block int) error
	LastOutcome(ctx context.Context, id string) (*domain.Outcome, error)
	Lock() *runtime.Lock
	SessionID() string
}

// Server serves the notebook API.
type Server struct {
	Notebook Notebook
	Streams  *StreamManager

	version string
	logger  *slog.Logger
}

// ServerOption configures the server.
type ServerOption func(*Server)

// WithVersion sets the version string reported by /info.
func WithVersion(v string) ServerOption {
	return func(s *Server) {
		s.version = v
	}
}

// WithLogger injects a logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for a notebook. Lock transitions are
// fanned out to every connected /events client.
func NewHandler(nb Notebook, opts ...ServerOption) http.Handler {
	s := &Server{
		Notebook: nb,
		Streams:  NewStreamManager(),
		version:  "dev",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	nb.Lock().Subscribe(func(ev domain.LockEvent) {
		payload, err := json.Marshal(ev)
		if err != nil {
			return
		}
		s.Streams.Broadcast(string(payload))
	})

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/cells", func(r chi.Router) {
		r.Get("/", s.ListCells)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetCell)
			r.Put("/source", s.PutSource)
			r.Post("/run", s.RunCell)
			r.Post("/run-selection", s.RunSelection)
			r.Post("/reset", s.ResetCell)
			r.Post("/append-block", s.AppendBlock)
			r.Post("/feedback", s.RequestFeedback)
			r.Get("/outcome", s.GetOutcome)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// blockRequest selects one run target; the zero value means the primary one.
type blockRequest struct {
	Block int `json:"block"`
}

type cellSummary struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	Label     string   `json:"label,omitempty"`
	Classes   []string `json:"classes,omitempty"`
	ReadOnly  bool     `json:"read_only,omitempty"`
	Running   bool     `json:"running"`
	CanAppend bool     `json:"can_append"`
	Blocks    int      `json:"blocks"`
}

func summarize(c *cell.Cell) cellSummary {
	opts := c.Options()
	return cellSummary{
		ID:        c.ID(),
		Kind:      string(c.Kind()),
		Label:     opts.Label,
		Classes:   opts.Classes,
		ReadOnly:  opts.ReadOnly,
		Running:   c.Running(),
		CanAppend: c.CanAppend(),
		Blocks:    len(c.Targets()),
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":        "scriptcell-http",
		"version":    s.version,
		"session_id": s.Notebook.SessionID(),
	})
}

// ListCells handles GET /cells.
func (s *Server) ListCells(w http.ResponseWriter, r *http.Request) {
	cells := s.Notebook.Cells()
	out := make([]cellSummary, 0, len(cells))
	for _, c := range cells {
		out = append(out, summarize(c))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetCell handles GET /cells/{id}.
func (s *Server) GetCell(w http.ResponseWriter, r *http.Request) {
	c, err := s.Notebook.Cell(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	sources := make([]string, 0, len(c.Targets()))
	for _, t := range c.Targets() {
		sources = append(sources, t.Buffer().Text())
	}

	s.writeJSON(w, http.StatusOK, struct {
		cellSummary
		Sources []string `json:"sources"`
	}{summarize(c), sources})
}

// PutSource handles PUT /cells/{id}/source.
func (s *Server) PutSource(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Block int    `json:"block"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.Notebook.SetSource(chi.URLParam(r, "id"), body.Block, body.Code); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunCell handles POST /cells/{id}/run.
func (s *Server) RunCell(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, s.Notebook.RunBlock)
}

// RunSelection handles POST /cells/{id}/run-selection.
func (s *Server) RunSelection(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, s.Notebook.RunSelection)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request,
	exec func(context.Context, string, int) (domain.Outcome, error)) {

	var body blockRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	out, err := exec(r.Context(), chi.URLParam(r, "id"), body.Block)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := struct {
		domain.Outcome
		Error string `json:"error,omitempty"`
	}{Outcome: out}
	if out.ScriptErr != nil {
		resp.Error = out.ScriptErr.Error()
	}

	// A trigger dropped while the lock is held answers 409, so clients can
	// tell it from an accepted run without inspecting the body.
	status := http.StatusOK
	if out.Dropped {
		status = http.StatusConflict
	}
	s.writeJSON(w, status, resp)
}

// ResetCell handles POST /cells/{id}/reset.
func (s *Server) ResetCell(w http.ResponseWriter, r *http.Request) {
	var body blockRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	if err := s.Notebook.ResetCell(r.Context(), chi.URLParam(r, "id"), body.Block); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AppendBlock handles POST /cells/{id}/append-block.
func (s *Server) AppendBlock(w http.ResponseWriter, r *http.Request) {
	block, err := s.Notebook.AppendBlock(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]int{"block": block})
}

// RequestFeedback handles POST /cells/{id}/feedback.
func (s *Server) RequestFeedback(w http.ResponseWriter, r *http.Request) {
	var body blockRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	if err := s.Notebook.RequestFeedback(r.Context(), chi.URLParam(r, "id"), body.Block); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// GetOutcome handles GET /cells/{id}/outcome.
func (s *Server) GetOutcome(w http.ResponseWriter, r *http.Request) {
	out, err := s.Notebook.LastOutcome(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

// SubscribeEvents handles GET /events (SSE). Each lock transition arrives as
// one data frame; a held lock means every run trigger on the page disables.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrCellNotFound), errors.Is(err, domain.ErrOutcomeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrBlockAppended),
		errors.Is(err, domain.ErrReadOnly),
		errors.Is(err, domain.ErrNotInteractive),
		errors.Is(err, domain.ErrCellRunning):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrCredentialMissing):
		status = http.StatusUnauthorized
	}

	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// StreamManager fans one message stream out to active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
}

// NewStreamManager creates an empty manager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
	}
}

// Subscribe registers a client; the returned cancel removes it.
func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast delivers a message to every client, dropping it for slow ones.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}
