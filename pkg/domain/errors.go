package domain

import "errors"

// ErrCredentialMissing is returned when the feedback pipeline has no stored
// credential; the pipeline makes no network call in that case.
var ErrCredentialMissing = errors.New("feedback credential missing")

// ErrOutcomeNotFound is returned when a run store has no outcome for the
// requested session/cell pair.
var ErrOutcomeNotFound = errors.New("outcome not found")

// ErrBlockAppended is returned when a second append-block is requested; the
// action is available exactly once per cell.
var ErrBlockAppended = errors.New("block already appended")

// ErrCellNotFound is returned when a registry lookup misses.
var ErrCellNotFound = errors.New("cell not found")

// ErrNotInteractive is returned when an interactive affordance (reset,
// append-block, feedback) is invoked on an output or setup cell.
var ErrNotInteractive = errors.New("cell is not interactive")

// ErrReadOnly is returned when an edit is attempted on a read-only cell.
var ErrReadOnly = errors.New("cell is read-only")

// ErrCellRunning is returned when an edit or reset is attempted while a run
// of the cell is in flight; its regions belong to the engine until the run
// completes.
var ErrCellRunning = errors.New("cell run in flight")
