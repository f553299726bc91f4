package ports

import (
	"context"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

// NotebookLoader retrieves the ordered cell declarations of a document.
// It decouples the storage layer (Loam repository, memory, tests) from the
// cell registry that is built from the declarations.
type NotebookLoader interface {
	// Load returns every cell declaration of the document, in document order.
	Load(ctx context.Context) ([]domain.Declaration, error)
}
