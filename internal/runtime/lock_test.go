package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

func TestLockSingleSlot(t *testing.T) {
	l := NewLock()

	require.True(t, l.TryAcquire())
	assert.True(t, l.Held())

	// Second trigger is dropped, not queued.
	assert.False(t, l.TryAcquire())

	l.Release()
	assert.False(t, l.Held())
	assert.True(t, l.TryAcquire())
}

func TestLockReleaseIdempotent(t *testing.T) {
	l := NewLock()

	l.Release()
	assert.False(t, l.Held())

	require.True(t, l.TryAcquire())
	l.Release()
	l.Release()
	assert.True(t, l.TryAcquire())
}

func TestLockNotifiesSubscribers(t *testing.T) {
	l := NewLock()

	var events []bool
	l.Subscribe(func(ev domain.LockEvent) {
		events = append(events, ev.Held)
	})

	require.True(t, l.TryAcquire())
	assert.False(t, l.TryAcquire(), "failed acquire must not notify")
	l.Release()
	l.Release()

	assert.Equal(t, []bool{true, false}, events)
}

func TestLockNotifiesAllSubscribers(t *testing.T) {
	l := NewLock()

	var a, b int
	l.Subscribe(func(domain.LockEvent) { a++ })
	l.Subscribe(func(domain.LockEvent) { b++ })

	require.True(t, l.TryAcquire())
	l.Release()

	assert.Equal(t, 2, a)
	assert.Equal(t, 2, b)
}
