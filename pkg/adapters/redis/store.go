// Package redis persists run outcomes in Redis, keyed by session and cell.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

// RunStore implements ports.RunStore on Redis. Each outcome lives under its
// own key; a per-session set indexes the cells with a saved outcome.
type RunStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the store.
type Option func(*RunStore)

// WithTTL sets the expiration for saved outcomes. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *RunStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *RunStore) {
		s.prefix = prefix
	}
}

// New creates a store with its own client.
func New(address, password string, db int, opts ...Option) *RunStore {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a store over an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *RunStore {
	s := &RunStore{
		client: client,
		prefix: "scriptcell:run:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RunStore) key(sessionID, cellID string) string {
	return s.prefix + sessionID + ":" + cellID
}

func (s *RunStore) indexKey(sessionID string) string {
	return s.prefix + sessionID + ":index"
}

// Save persists the outcome of a cell's latest run, replacing any earlier one.
func (s *RunStore) Save(ctx context.Context, sessionID, cellID string, out *domain.Outcome) error {
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshaling outcome: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(sessionID, cellID), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(sessionID), cellID)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.indexKey(sessionID), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving outcome to redis: %w", err)
	}
	return nil
}

// Load retrieves the last saved outcome for a cell.
func (s *RunStore) Load(ctx context.Context, sessionID, cellID string) (*domain.Outcome, error) {
	val, err := s.client.Get(ctx, s.key(sessionID, cellID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrOutcomeNotFound
		}
		return nil, fmt.Errorf("loading outcome from redis: %w", err)
	}

	var out domain.Outcome
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, fmt.Errorf("unmarshaling outcome: %w", err)
	}
	return &out, nil
}

// Delete removes the saved outcome for a cell.
func (s *RunStore) Delete(ctx context.Context, sessionID, cellID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(sessionID, cellID))
	pipe.SRem(ctx, s.indexKey(sessionID), cellID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("deleting outcome from redis: %w", err)
	}
	return nil
}

// List returns the cell IDs with a saved outcome in the session.
func (s *RunStore) List(ctx context.Context, sessionID string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing outcomes from redis: %w", err)
	}
	return ids, nil
}

// Ping verifies connectivity.
func (s *RunStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RunStore) Close() error {
	return s.client.Close()
}
