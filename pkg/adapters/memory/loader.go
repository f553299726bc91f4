package memory

import (
	"context"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

// Loader implements ports.NotebookLoader over a fixed declaration slice.
type Loader struct {
	decls []domain.Declaration
}

// NewLoader creates a loader serving the given declarations in order.
func NewLoader(decls ...domain.Declaration) *Loader {
	return &Loader{decls: decls}
}

// Load returns the declarations in document order.
func (l *Loader) Load(ctx context.Context) ([]domain.Declaration, error) {
	out := make([]domain.Declaration, len(l.decls))
	copy(out, l.decls)
	return out, nil
}
