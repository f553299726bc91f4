package dsl

import (
	"github.com/scriptcell/scriptcell/pkg/adapters/memory"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

// Builder manages the document construction.
type Builder struct {
	order []string
	cells map[string]*CellBuilder
}

// New creates a new document builder.
func New() *Builder {
	return &Builder{
		cells: make(map[string]*CellBuilder),
	}
}

// Add creates a new cell in the document, appended in declaration order.
// If the cell already exists, it returns the existing builder.
func (b *Builder) Add(id string) *CellBuilder {
	if cb, ok := b.cells[id]; ok {
		return cb
	}
	cb := &CellBuilder{
		decl: domain.Declaration{
			ID: id,
		},
		builder: b,
	}
	b.order = append(b.order, id)
	b.cells[id] = cb
	return cb
}

// Build compiles the document into a memory loader, preserving the order
// the cells were added in.
func (b *Builder) Build() *memory.Loader {
	decls := make([]domain.Declaration, 0, len(b.order))
	for _, id := range b.order {
		decls = append(decls, b.cells[id].decl)
	}
	return memory.NewLoader(decls...)
}
