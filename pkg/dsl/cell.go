package dsl

import "github.com/scriptcell/scriptcell/pkg/domain"

// CellBuilder provides a fluent API for configuring a cell.
type CellBuilder struct {
	decl    domain.Declaration
	builder *Builder
}

// Source sets the initial source text of the cell.
func (c *CellBuilder) Source(code string) *CellBuilder {
	c.decl.Source = code
	return c
}

// Setup marks the cell as a setup cell: it runs during bootstrap and its
// output never renders.
func (c *CellBuilder) Setup() *CellBuilder {
	c.decl.Options.Context = domain.ContextSetup
	return c
}

// Output marks the cell as an output cell, exposing the raw result to its
// caller instead of an interactive surface.
func (c *CellBuilder) Output() *CellBuilder {
	c.decl.Options.Context = domain.ContextOutput
	return c
}

// Label sets the display label of the cell.
func (c *CellBuilder) Label(label string) *CellBuilder {
	c.decl.Options.Label = label
	return c
}

// Classes adds style classes to the cell.
func (c *CellBuilder) Classes(classes ...string) *CellBuilder {
	c.decl.Options.Classes = append(c.decl.Options.Classes, classes...)
	return c
}

// ReadOnly locks the cell's source against edits.
func (c *CellBuilder) ReadOnly() *CellBuilder {
	c.decl.Options.ReadOnly = true
	return c
}

// FigCaption sets the caption attached to graphics the cell produces.
func (c *CellBuilder) FigCaption(caption string) *CellBuilder {
	c.decl.Options.FigCaption = caption
	return c
}

// Option sets a declaration key this engine does not interpret itself.
func (c *CellBuilder) Option(key string, value any) *CellBuilder {
	if c.decl.Options.Extra == nil {
		c.decl.Options.Extra = make(map[string]any)
	}
	c.decl.Options.Extra[key] = value
	return c
}

// Build returns the underlying domain.Declaration.
// This is primarily used by the Builder, but exposed for advanced usage.
func (c *CellBuilder) Build() domain.Declaration {
	return c.decl
}
