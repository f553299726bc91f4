package ports

import "github.com/scriptcell/scriptcell/pkg/domain"

// OutputRegion is a text region of one run target (the output block, or the
// feedback reply). Only the engine writes to it while a run is active.
type OutputRegion interface {
	// Show replaces the region's content and marks it non-empty.
	Show(content string)

	// Reset clears the content and marks the region empty (hidden).
	Reset()

	// IsEmpty reports whether the region currently renders nothing.
	IsEmpty() bool

	// Content returns the currently rendered text.
	Content() string
}

// GraphicRegion holds at most one artifact container per run.
type GraphicRegion interface {
	// Append attaches the run's artifact and marks the region non-empty.
	// The engine resets the region first, so at most one container renders.
	Append(a *domain.Artifact)

	// Reset removes any artifact and marks the region empty.
	Reset()

	// IsEmpty reports whether the region currently renders nothing.
	IsEmpty() bool

	// Artifact returns the rendered container, nil when empty.
	Artifact() *domain.Artifact
}

// TextBuffer is the editable source buffer of one run target. Buffer editing,
// highlighting and keybinding internals belong to the host widget; the engine
// only needs text access and selection queries.
type TextBuffer interface {
	// Text returns the full buffer content.
	Text() string

	// SetText replaces the full buffer content.
	SetText(s string)

	// Selection returns the selected text and whether a selection exists.
	Selection() (string, bool)

	// CurrentLine returns the line under the cursor.
	CurrentLine() string
}
