package domain

// Drawable is a single element the interpreter drew into the graphic sink.
type Drawable struct {
	MIME string `json:"mime"`
	Data []byte `json:"data"`
}

// Artifact is the rendered graphic container of one run. A run produces at
// most one Artifact, no matter how many elements were drawn; it replaces any
// artifact from a previous run of the same target.
type Artifact struct {
	Elements []Drawable `json:"elements"`
	Caption  string     `json:"caption,omitempty"`
}
