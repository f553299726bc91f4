// Package file implements the run store on the local filesystem. Outcomes
// are stored as one JSON file per cell under a directory per session, so a
// page session survives process restarts without any external service.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

// Store implements ports.RunStore using the local filesystem.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".scriptcell/sessions".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".scriptcell", "sessions")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) sessionDir(sessionID string) string {
	return filepath.Join(s.BasePath, sessionID)
}

func (s *Store) outcomePath(sessionID, cellID string) string {
	return filepath.Join(s.sessionDir(sessionID), cellID+".json")
}

// Save persists the outcome to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it
// to the destination.
func (s *Store) Save(ctx context.Context, sessionID, cellID string, out *domain.Outcome) error {
	if sessionID == "" || cellID == "" {
		return fmt.Errorf("sessionID and cellID cannot be empty")
	}

	dir := s.sessionDir(sessionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure session directory: %w", err)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	// Same directory as the destination, so the rename stays on one
	// filesystem and is atomic.
	tmpFile, err := os.CreateTemp(dir, "tmp-"+cellID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // Remove if still exists (not renamed)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	destPath := s.outcomePath(sessionID, cellID)

	// On Windows, os.Rename fails if dest exists. We must remove it first.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing outcome file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to outcome file: %w", err)
	}

	return nil
}

// Load retrieves the saved outcome from a JSON file.
func (s *Store) Load(ctx context.Context, sessionID, cellID string) (*domain.Outcome, error) {
	if sessionID == "" || cellID == "" {
		return nil, fmt.Errorf("sessionID and cellID cannot be empty")
	}

	data, err := os.ReadFile(s.outcomePath(sessionID, cellID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrOutcomeNotFound
		}
		return nil, fmt.Errorf("failed to read outcome file: %w", err)
	}

	var out domain.Outcome
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outcome: %w", err)
	}

	return &out, nil
}

// Delete removes the outcome file.
func (s *Store) Delete(ctx context.Context, sessionID, cellID string) error {
	if sessionID == "" || cellID == "" {
		return fmt.Errorf("sessionID and cellID cannot be empty")
	}

	err := os.Remove(s.outcomePath(sessionID, cellID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete outcome file: %w", err)
	}

	return nil
}

// List returns the cell IDs with a saved outcome in the session.
func (s *Store) List(ctx context.Context, sessionID string) ([]string, error) {
	entries, err := os.ReadDir(s.sessionDir(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}

	var cells []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			name := entry.Name()
			cells = append(cells, name[:len(name)-len(".json")])
		}
	}

	return cells, nil
}

// Sessions returns all session IDs that have saved outcomes.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var sessions []string
	for _, entry := range entries {
		if entry.IsDir() {
			sessions = append(sessions, entry.Name())
		}
	}

	return sessions, nil
}

// DeleteSession removes every saved outcome of a session.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID cannot be empty")
	}
	if err := os.RemoveAll(s.sessionDir(sessionID)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
