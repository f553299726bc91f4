package domain

import (
	"context"
	"time"
)

// RunEvent describes the start or the end of one accepted run.
type RunEvent struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	CellID    string    `json:"cell_id"`
	Block     int       `json:"block"`
	// IsError is set on run end when the script raised.
	IsError bool `json:"is_error,omitempty"`
}

// LockEvent describes a transition of the page-wide run lock. Hosts derive
// trigger affordance state (enabled/disabled) from it; the lock itself stays
// the single source of truth.
type LockEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Held      bool      `json:"held"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnRunEnd   func(context.Context, *RunEvent)
}
