package cell

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/scriptcell/scriptcell/internal/logging"
	"github.com/scriptcell/scriptcell/internal/runtime"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

// Kind is the cell variant, selected by the declared context tag.
type Kind string

const (
	// KindInteractive cells are editable and carry the full affordance set.
	KindInteractive Kind = "interactive"
	// KindOutput cells execute and expose the raw result to their caller.
	KindOutput Kind = "output"
	// KindSetup cells execute preamble code; their output never renders.
	KindSetup Kind = "setup"
)

// KindFor maps a declared context tag to a cell variant. An absent or
// unrecognized tag falls back to KindInteractive.
func KindFor(context string) Kind {
	switch context {
	case domain.ContextOutput:
		return KindOutput
	case domain.ContextSetup:
		return KindSetup
	default:
		return KindInteractive
	}
}

// Cell is one runnable cell of the document. It is created from a serialized
// declaration at load time and lives for the whole page session.
type Cell struct {
	id       string
	kind     Kind
	opts     domain.CellOptions
	engine   *runtime.Engine
	surfaces SurfaceFactory
	logger   *slog.Logger

	mu       sync.RWMutex
	targets  []*Target
	appended bool

	running atomic.Bool
}

// Option configures a cell.
type Option func(*Cell)

// WithLogger injects a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cell) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a cell from its declaration. The variant comes from the
// declared context tag; setup cells get discarding regions so nothing they
// print ever renders.
func New(decl domain.Declaration, engine *runtime.Engine, surfaces SurfaceFactory, opts ...Option) *Cell {
	c := &Cell{
		id:       decl.ID,
		kind:     KindFor(decl.Options.Context),
		opts:     decl.Options,
		engine:   engine,
		surfaces: surfaces,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if decl.Options.Context != "" && c.kind == KindInteractive && decl.Options.Context != domain.ContextInteractive {
		c.logger.Debug("unrecognized context tag, defaulting to interactive",
			"cell_id", c.id, "context", decl.Options.Context)
	}

	c.targets = []*Target{newTarget(c.surface(0), decl.Source)}
	return c
}

// surface builds the page elements for one block, silencing setup cells.
func (c *Cell) surface(block int) Surface {
	s := c.surfaces(c.id, block)
	if c.kind == KindSetup {
		s.Output = nopRegion{}
		s.Graphic = nopCanvas{}
		s.Feedback = nopRegion{}
	}
	return s
}

// ID returns the cell identifier.
func (c *Cell) ID() string {
	return c.id
}

// Kind returns the cell variant.
func (c *Cell) Kind() Kind {
	return c.kind
}

// Options returns the declared options.
func (c *Cell) Options() domain.CellOptions {
	return c.opts
}

// Running reports whether a run of this cell is in flight.
func (c *Cell) Running() bool {
	return c.running.Load()
}

// MarkRunning flips the cell into the running state; false when it already
// was. Part of the engine's Owner contract.
func (c *Cell) MarkRunning() bool {
	return c.running.CompareAndSwap(false, true)
}

// MarkIdle returns the cell to the idle state.
func (c *Cell) MarkIdle() {
	c.running.Store(false)
}

// Targets returns the cell's run targets in creation order.
func (c *Cell) Targets() []*Target {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Target{}, c.targets...)
}

// Target returns the run target of one block.
func (c *Cell) Target(block int) (*Target, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if block < 0 || block >= len(c.targets) {
		return nil, fmt.Errorf("cell %s has no block %d", c.id, block)
	}
	return c.targets[block], nil
}

// Execute runs the primary target's full buffer.
func (c *Cell) Execute(ctx context.Context) (domain.Outcome, error) {
	return c.ExecuteBlock(ctx, 0)
}

// ExecuteBlock runs one target's full buffer through the engine.
func (c *Cell) ExecuteBlock(ctx context.Context, block int) (domain.Outcome, error) {
	t, err := c.Target(block)
	if err != nil {
		return domain.Outcome{}, err
	}
	return c.executeSource(ctx, t, block, t.Buffer().Text())
}

// RunSelection runs the selected text, or the line under the cursor when no
// selection exists. This is the run-selection keyboard command surface.
func (c *Cell) RunSelection(ctx context.Context, block int) (domain.Outcome, error) {
	t, err := c.Target(block)
	if err != nil {
		return domain.Outcome{}, err
	}

	source, ok := t.Buffer().Selection()
	if !ok || source == "" {
		source = t.Buffer().CurrentLine()
	}
	return c.executeSource(ctx, t, block, source)
}

func (c *Cell) executeSource(ctx context.Context, t *Target, block int, source string) (domain.Outcome, error) {
	return c.engine.Execute(ctx, runtime.Request{
		Source:  source,
		Caption: c.opts.FigCaption,
		Block:   block,
		Owner:   c,
		Output:  t.Output(),
		Graphic: t.Graphic(),
	})
}

// SetSource replaces a target's buffer content, as a user edit would.
func (c *Cell) SetSource(block int, text string) error {
	if c.opts.ReadOnly {
		return domain.ErrReadOnly
	}
	if c.running.Load() {
		return domain.ErrCellRunning
	}
	t, err := c.Target(block)
	if err != nil {
		return err
	}
	clean, err := SanitizeSource(text)
	if err != nil {
		return err
	}
	t.Buffer().SetText(clean)
	return nil
}

// CopySource exposes a target's current source text to the caller.
func (c *Cell) CopySource(block int) (string, error) {
	t, err := c.Target(block)
	if err != nil {
		return "", err
	}
	return t.Buffer().Text(), nil
}

// Reset restores a target's source to its initial snapshot and clears the
// output, graphic and feedback regions, but only those currently non-empty;
// an already-empty region is never re-marked.
func (c *Cell) Reset(block int) error {
	if c.kind != KindInteractive {
		return domain.ErrNotInteractive
	}
	if c.running.Load() {
		return domain.ErrCellRunning
	}
	t, err := c.Target(block)
	if err != nil {
		return err
	}

	t.Buffer().SetText(t.Snapshot())
	if !t.Output().IsEmpty() {
		t.Output().Reset()
	}
	if !t.Graphic().IsEmpty() {
		t.Graphic().Reset()
	}
	if !t.Feedback().IsEmpty() {
		t.Feedback().Reset()
	}
	return nil
}

// CanAppend reports whether the one-time append-block action is still
// available.
func (c *Cell) CanAppend() bool {
	if c.kind != KindInteractive {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.appended
}

// AppendBlock creates the cell's second, independent run target, wired to
// the same global lock. The action is available exactly once; afterwards it
// returns domain.ErrBlockAppended.
func (c *Cell) AppendBlock() (int, error) {
	if c.kind != KindInteractive {
		return 0, domain.ErrNotInteractive
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.appended {
		return 0, domain.ErrBlockAppended
	}
	c.appended = true

	block := len(c.targets)
	c.targets = append(c.targets, newTarget(c.surface(block), ""))
	return block, nil
}

// nopCanvas discards artifacts; the graphic counterpart of nopRegion.
type nopCanvas struct{}

func (nopCanvas) Append(*domain.Artifact) {}

func (nopCanvas) Reset() {}

func (nopCanvas) IsEmpty() bool {
	return true
}

func (nopCanvas) Artifact() *domain.Artifact {
	return nil
}
