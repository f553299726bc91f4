package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scriptcell/scriptcell/internal/logging"
	"github.com/scriptcell/scriptcell/internal/metrics"
	"github.com/scriptcell/scriptcell/pkg/domain"
	"github.com/scriptcell/scriptcell/pkg/ports"
)

// Owner is the cell-side view the engine needs: a per-cell running marker.
// The marker is checked before the global lock so a cell's own triggers are
// dropped even if the lock briefly looks free.
type Owner interface {
	ID() string
	MarkRunning() bool
	MarkIdle()
}

// Request is one ephemeral execution request: source text plus the owning
// cell and the regions of the owning run target.
type Request struct {
	Source  string
	Caption string
	Block   int
	Owner   Owner
	Output  ports.OutputRegion
	Graphic ports.GraphicRegion
}

// Engine serializes access to the shared interpreter and drives the run
// sequence: acquire lock, capture output, render regions, release lock.
type Engine struct {
	interp  ports.Interpreter
	lock    *Lock
	capture *Capture
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLogger injects a logger for run-level events.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates the engine and wires the interpreter's stream sink into
// the capture buffer.
func NewEngine(interp ports.Interpreter, opts ...EngineOption) *Engine {
	e := &Engine{
		interp:  interp,
		lock:    NewLock(),
		capture: NewCapture(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	interp.SetStreamSink(func(kind domain.StreamKind, text string) {
		e.capture.Append(kind, text)
	})

	return e
}

// Lock exposes the run lock so hosts can derive trigger affordance state.
func (e *Engine) Lock() *Lock {
	return e.lock
}

// Interpreter returns the shared interpreter behind this engine.
func (e *Engine) Interpreter() ports.Interpreter {
	return e.interp
}

// Execute runs one request against the shared interpreter.
//
// A trigger arriving while the owning cell is running, or while the global
// lock is held, yields a dropped outcome: it is ignored, never queued, and
// never cancels the in-flight run. Script errors are captured as stderr
// records and do not surface as an error return; the error return covers
// only context cancellation while waiting for interpreter bootstrap.
func (e *Engine) Execute(ctx context.Context, req Request) (domain.Outcome, error) {
	if req.Owner != nil {
		if !req.Owner.MarkRunning() {
			metrics.RunsTotal.WithLabelValues("dropped").Inc()
			return domain.Outcome{Dropped: true}, nil
		}
		defer req.Owner.MarkIdle()
	}

	if !e.lock.TryAcquire() {
		metrics.RunsTotal.WithLabelValues("dropped").Inc()
		return domain.Outcome{Dropped: true}, nil
	}
	// Released on every exit path, including a captured execution error.
	defer e.lock.Release()

	out := domain.Outcome{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	e.fireStart(ctx, &req, out.RunID)

	if err := e.interp.Ready(ctx); err != nil {
		metrics.RunsTotal.WithLabelValues("not_ready").Inc()
		return out, fmt.Errorf("interpreter bootstrap interrupted: %w", err)
	}

	e.capture.Reset()

	// Fresh sink every run: overwritten, never appended.
	sink := newGraphicSink()
	e.interp.SetGraphicSink(sink)

	if err := e.interp.LoadDependencies(ctx, req.Source); err != nil {
		// Non-fatal: dependency resolution failures never block a run.
		e.logger.Debug("dependency resolution failed, continuing", "run_id", out.RunID, "err", err)
	}

	value, err := e.interp.Run(ctx, req.Source)
	if err != nil {
		e.capture.Append(domain.StreamStderr, err.Error())
		out.ScriptErr = err
	} else {
		out.Value = value
	}

	out.Block = e.capture.Drain()

	if req.Output != nil {
		req.Output.Reset()
	}
	if req.Graphic != nil {
		req.Graphic.Reset()
	}

	if strings.TrimSpace(out.Block) != "" && req.Output != nil {
		req.Output.Show(out.Block)
	}

	if els := sink.elements(); len(els) > 0 {
		out.Artifact = &domain.Artifact{Elements: els, Caption: req.Caption}
		if req.Graphic != nil {
			req.Graphic.Append(out.Artifact)
		}
	}

	result := "completed"
	if out.ScriptErr != nil {
		result = "script_error"
	}
	metrics.RunsTotal.WithLabelValues(result).Inc()
	metrics.RunDuration.Observe(time.Since(out.StartedAt).Seconds())

	e.fireEnd(ctx, &req, &out)
	e.logger.Debug("run finished",
		"run_id", out.RunID,
		"cell_id", ownerID(req.Owner),
		"result", result,
	)

	return out, nil
}

func (e *Engine) fireStart(ctx context.Context, req *Request, runID string) {
	if e.hooks.OnRunStart == nil {
		return
	}
	e.hooks.OnRunStart(ctx, &domain.RunEvent{
		Timestamp: time.Now(),
		RunID:     runID,
		CellID:    ownerID(req.Owner),
		Block:     req.Block,
	})
}

func (e *Engine) fireEnd(ctx context.Context, req *Request, out *domain.Outcome) {
	if e.hooks.OnRunEnd == nil {
		return
	}
	e.hooks.OnRunEnd(ctx, &domain.RunEvent{
		Timestamp: time.Now(),
		RunID:     out.RunID,
		CellID:    ownerID(req.Owner),
		Block:     req.Block,
		IsError:   out.ScriptErr != nil,
	})
}

func ownerID(o Owner) string {
	if o == nil {
		return ""
	}
	return o.ID()
}

// graphicSink collects the drawable elements of one run.
type graphicSink struct {
	mu  sync.Mutex
	els []domain.Drawable
}

func newGraphicSink() *graphicSink {
	return &graphicSink{}
}

func (g *graphicSink) Draw(el domain.Drawable) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.els = append(g.els, el)
}

func (g *graphicSink) elements() []domain.Drawable {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.Drawable, len(g.els))
	copy(out, g.els)
	return out
}
