package ports

import (
	"context"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

// RunStore persists the last outcome per session and cell, so a reloaded
// page can show the previous results without re-running anything.
type RunStore interface {
	// Save persists the outcome of a cell's latest run.
	Save(ctx context.Context, sessionID, cellID string, out *domain.Outcome) error

	// Load retrieves the last saved outcome for a cell.
	// Returns domain.ErrOutcomeNotFound if nothing was saved.
	Load(ctx context.Context, sessionID, cellID string) (*domain.Outcome, error)

	// Delete removes the saved outcome for a cell.
	Delete(ctx context.Context, sessionID, cellID string) error

	// List returns the cell IDs with a saved outcome in the session.
	List(ctx context.Context, sessionID string) ([]string, error)
}
