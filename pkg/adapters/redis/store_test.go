package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcell/scriptcell/pkg/domain"
	"github.com/scriptcell/scriptcell/pkg/ports"
)

func newTestStore(t *testing.T, opts ...Option) (*RunStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewFromClient(client, opts...), mr
}

func TestRunStoreContract(t *testing.T) {
	store, _ := newTestStore(t)
	ports.RunRunStoreContract(t, store)
}

func TestRunStoreTTLExpiry(t *testing.T) {
	store, mr := newTestStore(t, WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", "c1", &domain.Outcome{RunID: "r1"}))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "s1", "c1")
	assert.ErrorIs(t, err, domain.ErrOutcomeNotFound)
}

func TestRunStorePrefixIsolation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	a := NewFromClient(client, WithPrefix("a:"))
	b := NewFromClient(client, WithPrefix("b:"))
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, "s1", "c1", &domain.Outcome{RunID: "ra"}))

	_, err := b.Load(ctx, "s1", "c1")
	assert.ErrorIs(t, err, domain.ErrOutcomeNotFound)

	ids, err := b.List(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
