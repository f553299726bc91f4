package runtime

import (
	"sync"
	"time"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

// Lock is the page-wide single-slot run lock. There is exactly one
// interpreter, so at most one execution request may be active at any
// instant; a trigger arriving while the lock is held is dropped, never
// queued.
//
// Trigger affordance state (every run button enabled/disabled at once) is
// derived by subscribers; the lock stays the single source of truth.
type Lock struct {
	mu   sync.Mutex
	held bool
	subs []func(domain.LockEvent)
}

// NewLock creates a released lock.
func NewLock() *Lock {
	return &Lock{}
}

// TryAcquire attempts to take the lock without blocking.
// It reports whether the caller now holds it.
func (l *Lock) TryAcquire() bool {
	l.mu.Lock()
	if l.held {
		l.mu.Unlock()
		return false
	}
	l.held = true
	subs := append([]func(domain.LockEvent){}, l.subs...)
	l.mu.Unlock()

	l.notify(subs, true)
	return true
}

// Release frees the lock. Releasing a free lock is a no-op.
func (l *Lock) Release() {
	l.mu.Lock()
	if !l.held {
		l.mu.Unlock()
		return
	}
	l.held = false
	subs := append([]func(domain.LockEvent){}, l.subs...)
	l.mu.Unlock()

	l.notify(subs, false)
}

// Held reports whether the lock is currently taken.
func (l *Lock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

// Subscribe registers a callback for lock transitions. The callback runs
// synchronously on the acquiring/releasing goroutine and must not block.
func (l *Lock) Subscribe(fn func(domain.LockEvent)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, fn)
}

func (l *Lock) notify(subs []func(domain.LockEvent), held bool) {
	ev := domain.LockEvent{Timestamp: time.Now(), Held: held}
	for _, fn := range subs {
		fn(ev)
	}
}
