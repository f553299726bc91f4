package cell

import (
	"context"
	"fmt"
	"sync"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

// Registry holds the cells of one document in declaration order.
// Cells are never removed during a page session.
type Registry struct {
	mu    sync.RWMutex
	order []string
	cells map[string]*Cell
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		cells: make(map[string]*Cell),
	}
}

// Add appends a cell. Duplicate IDs are rejected.
func (r *Registry) Add(c *Cell) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.cells[c.ID()]; exists {
		return fmt.Errorf("duplicate cell id: %s", c.ID())
	}
	r.cells[c.ID()] = c
	r.order = append(r.order, c.ID())
	return nil
}

// Get returns a cell by ID.
func (r *Registry) Get(id string) (*Cell, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cells[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCellNotFound, id)
	}
	return c, nil
}

// All returns every cell in declaration order.
func (r *Registry) All() []*Cell {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Cell, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.cells[id])
	}
	return out
}

// Len returns the number of registered cells.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// RunSetup executes every setup cell sequentially, in declaration order.
// Script errors are captured by the engine and do not stop the sequence;
// only an infrastructure error (interrupted bootstrap) aborts.
func (r *Registry) RunSetup(ctx context.Context) error {
	return r.runKind(ctx, KindSetup)
}

// RunAll executes every cell sequentially, in declaration order.
func (r *Registry) RunAll(ctx context.Context) error {
	return r.runKind(ctx, "")
}

func (r *Registry) runKind(ctx context.Context, kind Kind) error {
	for _, c := range r.All() {
		if kind != "" && c.Kind() != kind {
			continue
		}
		if _, err := c.Execute(ctx); err != nil {
			return fmt.Errorf("bulk execution stopped at cell %s: %w", c.ID(), err)
		}
	}
	return nil
}
