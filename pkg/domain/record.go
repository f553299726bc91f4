package domain

// StreamKind identifies which interpreter stream a record was emitted on.
type StreamKind string

const (
	StreamStdout StreamKind = "stdout"
	StreamStderr StreamKind = "stderr"
)

// Record is one write captured from the interpreter during a run.
// Records are ordered by emission; all records from one run render as a
// single block that replaces the previous block entirely.
type Record struct {
	Kind StreamKind `json:"kind"`
	Text string     `json:"text"`
}
