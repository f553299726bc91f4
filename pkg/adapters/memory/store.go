package memory

import (
	"context"
	"sync"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

// Store implements ports.RunStore in memory. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]*domain.Outcome
}

// NewStore creates a new in-memory run store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]map[string]*domain.Outcome),
	}
}

// Save persists the outcome, replacing any earlier one for the cell.
func (s *Store) Save(ctx context.Context, sessionID, cellID string, out *domain.Outcome) error {
	cp := *out

	s.mu.Lock()
	defer s.mu.Unlock()
	cells, ok := s.data[sessionID]
	if !ok {
		cells = make(map[string]*domain.Outcome)
		s.data[sessionID] = cells
	}
	cells[cellID] = &cp
	return nil
}

// Load retrieves the last saved outcome for a cell.
func (s *Store) Load(ctx context.Context, sessionID, cellID string) (*domain.Outcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out, ok := s.data[sessionID][cellID]
	if !ok {
		return nil, domain.ErrOutcomeNotFound
	}

	// Copy on read so the caller can't mutate stored state by pointer.
	cp := *out
	return &cp, nil
}

// Delete removes the saved outcome for a cell.
func (s *Store) Delete(ctx context.Context, sessionID, cellID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[sessionID], cellID)
	return nil
}

// List returns the cell IDs with a saved outcome in the session.
func (s *Store) List(ctx context.Context, sessionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cells := s.data[sessionID]
	ids := make([]string, 0, len(cells))
	for id := range cells {
		ids = append(ids, id)
	}
	return ids, nil
}
