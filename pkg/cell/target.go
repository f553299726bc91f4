package cell

import "github.com/scriptcell/scriptcell/pkg/ports"

// Surface bundles the page elements of one run target.
type Surface struct {
	Buffer   ports.TextBuffer
	Output   ports.OutputRegion
	Graphic  ports.GraphicRegion
	Feedback ports.OutputRegion
}

// SurfaceFactory creates the page elements for a cell's run target. Hosts
// inject it so cells stay agnostic of where regions actually live.
type SurfaceFactory func(cellID string, block int) Surface

// Target is one (editor buffer, output region, graphic region) triple of a
// cell, together with the initial-source snapshot reset restores.
type Target struct {
	surface  Surface
	snapshot string
}

func newTarget(s Surface, source string) *Target {
	s.Buffer.SetText(source)
	return &Target{surface: s, snapshot: source}
}

// Buffer returns the editable source buffer.
func (t *Target) Buffer() ports.TextBuffer {
	return t.surface.Buffer
}

// Output returns the text output region.
func (t *Target) Output() ports.OutputRegion {
	return t.surface.Output
}

// Graphic returns the graphic region.
func (t *Target) Graphic() ports.GraphicRegion {
	return t.surface.Graphic
}

// Feedback returns the feedback reply region.
func (t *Target) Feedback() ports.OutputRegion {
	return t.surface.Feedback
}

// Snapshot returns the initial source captured at target creation.
func (t *Target) Snapshot() string {
	return t.snapshot
}

// nopRegion discards writes; setup cells render nothing, ever.
type nopRegion struct{}

func (nopRegion) Show(string) {}

func (nopRegion) Reset() {}

func (nopRegion) IsEmpty() bool {
	return true
}

func (nopRegion) Content() string {
	return ""
}
