package loam

// CellMetadata is the frontmatter of one cell document in the repository.
// Keys follow the declaration format of the document ("read-only",
// "fig-cap"); unknown keys are preserved in Extra.
type CellMetadata struct {
	ID         string   `json:"id" mapstructure:"id"`
	Context    string   `json:"context" mapstructure:"context"`
	Label      string   `json:"label" mapstructure:"label"`
	Classes    []string `json:"classes" mapstructure:"classes"`
	ReadOnly   bool     `json:"read-only" mapstructure:"read-only"`
	FigCaption string   `json:"fig-cap" mapstructure:"fig-cap"`

	// Order positions the cell in the document; ties break on the cell ID.
	Order int `json:"order" mapstructure:"order"`

	Extra map[string]any `json:",omitempty" mapstructure:",remain"`
}
