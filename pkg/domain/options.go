package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Context tags select the cell variant at creation time. An absent or
// unrecognized tag falls back to ContextInteractive.
const (
	ContextInteractive = "interactive"
	ContextOutput      = "output"
	ContextSetup       = "setup"
)

// CellOptions are the declared options of a cell. Keys follow the
// declaration format of the document ("read-only", "fig-cap", ...).
type CellOptions struct {
	Context    string   `json:"context" mapstructure:"context"`
	Label      string   `json:"label" mapstructure:"label"`
	Classes    []string `json:"classes" mapstructure:"classes"`
	ReadOnly   bool     `json:"read-only" mapstructure:"read-only"`
	FigCaption string   `json:"fig-cap" mapstructure:"fig-cap"`

	// Extra preserves declaration keys this engine does not interpret.
	Extra map[string]any `json:"extra,omitempty" mapstructure:",remain"`
}

// DecodeOptions decodes a raw options map from a cell declaration.
func DecodeOptions(raw map[string]any) (CellOptions, error) {
	var opts CellOptions
	if raw == nil {
		return opts, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return opts, fmt.Errorf("failed to build options decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return opts, fmt.Errorf("invalid cell options: %w", err)
	}
	return opts, nil
}
