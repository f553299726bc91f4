/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing documents.

It allows developers to define a document of script cells using a type-safe,
fluent builder pattern instead of relying on a Loam repository on disk. This
is particularly useful for embedding, unit testing, and leveraging IDE
autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/scriptcell/scriptcell"
		"github.com/scriptcell/scriptcell/pkg/dsl"
	)

	func main() {
		b := dsl.New()

		b.Add("imports").
			Source("import math").
			Setup()

		b.Add("area").
			Source("print(math.pi * 2**2)").
			Label("Circle area").
			FigCaption("Area of a circle with r=2")

		// The resulting loader can be used as a ports.NotebookLoader
		nb, err := scriptcell.New("", scriptcell.WithLoader(b.Build()))
		// ...
		_ = nb
		_ = err
	}
*/
package dsl
