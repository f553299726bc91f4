package domain

import "time"

// Outcome is the ephemeral result of one execution request.
type Outcome struct {
	// RunID correlates log lines, metrics and persisted results of one run.
	RunID string `json:"run_id"`

	// Dropped is true when the trigger was ignored because another run held
	// the lock (or the owning cell was already running). Nothing else is set.
	Dropped bool `json:"dropped,omitempty"`

	// Block is the drained capture buffer: every stdout/stderr record of the
	// run, in emission order, as one formatted block.
	Block string `json:"block,omitempty"`

	// Value is the interpreter's raw result. It is nil when the script
	// raised an error.
	Value any `json:"value,omitempty"`

	// Artifact is the run's graphic container, nil when nothing was drawn.
	Artifact *Artifact `json:"artifact,omitempty"`

	// ScriptErr holds a captured execution error. It is informational: the
	// error has already been rendered as a stderr record and never
	// propagates beyond the engine.
	ScriptErr error `json:"-"`

	// StartedAt marks lock acquisition time.
	StartedAt time.Time `json:"started_at,omitzero"`
}

// ScriptError is an error raised by the interpreter while running a cell.
// Its message is the full trace text, rendered verbatim as stderr output.
type ScriptError struct {
	Trace string
}

func (e *ScriptError) Error() string {
	return e.Trace
}
