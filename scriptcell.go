package scriptcell

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/loam"
	"github.com/google/uuid"

	"github.com/scriptcell/scriptcell/internal/logging"
	"github.com/scriptcell/scriptcell/internal/runtime"
	loamAdapter "github.com/scriptcell/scriptcell/pkg/adapters/loam"
	"github.com/scriptcell/scriptcell/pkg/adapters/memory"
	"github.com/scriptcell/scriptcell/pkg/adapters/process"
	"github.com/scriptcell/scriptcell/pkg/cell"
	"github.com/scriptcell/scriptcell/pkg/domain"
	"github.com/scriptcell/scriptcell/pkg/feedback"
	"github.com/scriptcell/scriptcell/pkg/ports"
)

// Notebook is the high-level entry point of the library: one loaded document,
// its cells, the shared interpreter behind them and the feedback pipeline.
type Notebook struct {
	Name string

	sessionID string
	logger    *slog.Logger
	loader    ports.NotebookLoader
	interp    ports.Interpreter
	engine    *runtime.Engine
	registry  *cell.Registry
	pipeline  *feedback.Pipeline
	notifier  ports.Notifier
	store     ports.RunStore
	surfaces  cell.SurfaceFactory
	hooks     domain.LifecycleHooks
	backend   feedback.Backend
	cfg       Config
}

// Option configures the notebook.
type Option func(*Notebook)

// WithLoader injects a custom loader, bypassing the default Loam
// initialization.
func WithLoader(l ports.NotebookLoader) Option {
	return func(nb *Notebook) {
		nb.loader = l
	}
}

// WithInterpreter injects the interpreter, bypassing the configured worker
// subprocess.
func WithInterpreter(interp ports.Interpreter) Option {
	return func(nb *Notebook) {
		nb.interp = interp
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(nb *Notebook) {
		nb.logger = logger
	}
}

// WithNotifier injects the notifier that carries feedback alerts and prompts.
func WithNotifier(n ports.Notifier) Option {
	return func(nb *Notebook) {
		nb.notifier = n
	}
}

// WithStore injects the run store; the default keeps outcomes in memory.
func WithStore(s ports.RunStore) Option {
	return func(nb *Notebook) {
		nb.store = s
	}
}

// WithSurfaces injects the surface factory that places cell regions; the
// default keeps them in memory for headless hosts.
func WithSurfaces(f cell.SurfaceFactory) Option {
	return func(nb *Notebook) {
		nb.surfaces = f
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(nb *Notebook) {
		nb.hooks = hooks
	}
}

// WithSession fixes the session ID; the default is a fresh UUID per load.
func WithSession(id string) Option {
	return func(nb *Notebook) {
		nb.sessionID = id
	}
}

// WithFeedbackBackend injects the feedback backend, bypassing configuration.
func WithFeedbackBackend(b feedback.Backend) Option {
	return func(nb *Notebook) {
		nb.backend = b
	}
}

// New opens the document at repoPath and builds its cells. By default the
// cells come from a Loam repository at that path, the interpreter is the
// worker subprocess named in scriptcell.yaml, and regions live in memory.
func New(repoPath string, opts ...Option) (*Notebook, error) {
	nb := &Notebook{}
	for _, opt := range opts {
		opt(nb)
	}

	if nb.logger == nil {
		nb.logger = logging.NewNop()
	}

	var absPath string
	if repoPath != "" {
		var err error
		absPath, err = filepath.Abs(repoPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		nb.Name = filepath.Base(absPath)
	}

	if nb.loader == nil {
		if absPath == "" {
			return nil, fmt.Errorf("repoPath is required when no custom loader is provided")
		}

		// Strict numeric decoding and read-only access: the notebook only
		// reads the document, user edits live in cell buffers.
		repo, err := loam.Init(absPath,
			loam.WithStrict(true),
			loam.WithReadOnly(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}
		nb.loader = loamAdapter.New(loam.NewTypedRepository[loamAdapter.CellMetadata](repo))
	}

	if nb.Name != "" {
		nb.logger = nb.logger.With("notebook", nb.Name)
	}

	cfg, err := LoadConfig(absPath)
	if err != nil {
		return nil, err
	}
	nb.cfg = cfg

	if nb.interp == nil {
		if cfg.Interpreter.Command == "" {
			return nil, fmt.Errorf("no interpreter: configure one in %s or inject via WithInterpreter", configFileName)
		}
		interp, err := process.New(cfg.Interpreter, process.WithLogger(nb.logger))
		if err != nil {
			return nil, fmt.Errorf("starting interpreter worker: %w", err)
		}
		nb.interp = interp
	}

	if nb.notifier == nil {
		nb.notifier = &logNotifier{logger: nb.logger}
	}
	if nb.store == nil {
		nb.store = memory.NewStore()
	}
	if nb.surfaces == nil {
		nb.surfaces = func(string, int) cell.Surface {
			return cell.Surface{
				Buffer:   memory.NewBuffer(""),
				Output:   memory.NewRegion(),
				Graphic:  memory.NewCanvas(),
				Feedback: memory.NewRegion(),
			}
		}
	}
	if nb.sessionID == "" {
		nb.sessionID = uuid.NewString()
	}

	nb.engine = runtime.NewEngine(nb.interp,
		runtime.WithLogger(nb.logger),
		runtime.WithHooks(nb.hooks),
	)

	if nb.backend == nil {
		backend, err := cfg.Feedback.Backend()
		if err != nil {
			return nil, err
		}
		nb.backend = backend
	}
	nb.pipeline = feedback.NewPipeline(nb.backend, nb.notifier,
		feedback.WithLogger(nb.logger))

	if err := nb.load(context.Background()); err != nil {
		return nil, err
	}
	return nb, nil
}

// load builds the cell registry from the loader's declarations.
func (nb *Notebook) load(ctx context.Context) error {
	decls, err := nb.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading cell declarations: %w", err)
	}

	registry := cell.NewRegistry()
	for _, decl := range decls {
		c := cell.New(decl, nb.engine, nb.surfaces, cell.WithLogger(nb.logger))
		if err := registry.Add(c); err != nil {
			return err
		}
	}
	nb.registry = registry

	nb.logger.Debug("notebook loaded", "cells", registry.Len(), "session_id", nb.sessionID)
	return nil
}

// SessionID identifies this page session in the run store.
func (nb *Notebook) SessionID() string {
	return nb.sessionID
}

// Cells returns every cell in document order.
func (nb *Notebook) Cells() []*cell.Cell {
	return nb.registry.All()
}

// Cell returns a cell by ID.
func (nb *Notebook) Cell(id string) (*cell.Cell, error) {
	return nb.registry.Get(id)
}

// Lock exposes the page-wide run lock so hosts can derive trigger state.
func (nb *Notebook) Lock() *runtime.Lock {
	return nb.engine.Lock()
}

// Ready blocks until the shared interpreter finished bootstrapping.
func (nb *Notebook) Ready(ctx context.Context) error {
	return nb.interp.Ready(ctx)
}

// Bootstrap runs every setup cell in document order. Script errors inside a
// setup cell are captured like any other run; only an interrupted interpreter
// bootstrap aborts.
func (nb *Notebook) Bootstrap(ctx context.Context) error {
	return nb.registry.RunSetup(ctx)
}

// RunAll executes every cell in document order.
func (nb *Notebook) RunAll(ctx context.Context) error {
	return nb.registry.RunAll(ctx)
}

// RunCell executes a cell's primary block.
func (nb *Notebook) RunCell(ctx context.Context, id string) (domain.Outcome, error) {
	return nb.RunBlock(ctx, id, 0)
}

// RunBlock executes one block of a cell and persists the outcome.
func (nb *Notebook) RunBlock(ctx context.Context, id string, block int) (domain.Outcome, error) {
	c, err := nb.registry.Get(id)
	if err != nil {
		return domain.Outcome{}, err
	}

	out, err := c.ExecuteBlock(ctx, block)
	if err != nil {
		return out, err
	}
	nb.persist(ctx, id, &out)
	return out, nil
}

// RunSelection executes the selected text of one block, or the line under
// the cursor when nothing is selected.
func (nb *Notebook) RunSelection(ctx context.Context, id string, block int) (domain.Outcome, error) {
	c, err := nb.registry.Get(id)
	if err != nil {
		return domain.Outcome{}, err
	}

	out, err := c.RunSelection(ctx, block)
	if err != nil {
		return out, err
	}
	nb.persist(ctx, id, &out)
	return out, nil
}

// persist saves an accepted outcome; failures are logged, never fatal.
func (nb *Notebook) persist(ctx context.Context, cellID string, out *domain.Outcome) {
	if out.Dropped {
		return
	}
	if err := nb.store.Save(ctx, nb.sessionID, cellID, out); err != nil {
		nb.logger.Warn("persisting outcome failed", "cell_id", cellID, "run_id", out.RunID, "err", err)
	}
}

// LastOutcome retrieves the persisted outcome of a cell's latest run.
func (nb *Notebook) LastOutcome(ctx context.Context, cellID string) (*domain.Outcome, error) {
	return nb.store.Load(ctx, nb.sessionID, cellID)
}

// ResetCell restores one block's source snapshot and clears its regions.
func (nb *Notebook) ResetCell(ctx context.Context, id string, block int) error {
	c, err := nb.registry.Get(id)
	if err != nil {
		return err
	}
	if err := c.Reset(block); err != nil {
		return err
	}
	if err := nb.store.Delete(ctx, nb.sessionID, id); err != nil {
		nb.logger.Warn("clearing persisted outcome failed", "cell_id", id, "err", err)
	}
	return nil
}

// SetSource replaces one block's source text.
func (nb *Notebook) SetSource(id string, block int, text string) error {
	c, err := nb.registry.Get(id)
	if err != nil {
		return err
	}
	return c.SetSource(block, text)
}

// Source returns one block's current source text.
func (nb *Notebook) Source(id string, block int) (string, error) {
	c, err := nb.registry.Get(id)
	if err != nil {
		return "", err
	}
	return c.CopySource(block)
}

// AppendBlock creates a cell's one-time second run target and returns its
// block index.
func (nb *Notebook) AppendBlock(id string) (int, error) {
	c, err := nb.registry.Get(id)
	if err != nil {
		return 0, err
	}
	return c.AppendBlock()
}

// RequestFeedback re-runs one block and submits its fresh output to the
// configured feedback backend, rendering the reply into the feedback region.
func (nb *Notebook) RequestFeedback(ctx context.Context, id string, block int) error {
	c, err := nb.registry.Get(id)
	if err != nil {
		return err
	}
	return nb.pipeline.Request(ctx, c, block)
}

// Close shuts down the interpreter worker and the run store, when they
// support it.
func (nb *Notebook) Close() error {
	var firstErr error
	if closer, ok := nb.interp.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			firstErr = err
		}
	}
	if closer, ok := nb.store.(io.Closer); ok {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// logNotifier turns alerts and prompts into log records for headless hosts.
type logNotifier struct {
	logger *slog.Logger
}

func (n *logNotifier) Alert(msg string) {
	n.logger.Warn("alert", "message", msg)
}

func (n *logNotifier) Prompt(msg string) {
	n.logger.Info("prompt", "message", msg)
}
