package dsl

import (
	"context"
	"testing"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

func TestBuilder_SimpleDocument(t *testing.T) {
	// 1. Build the document using DSL
	b := New()

	b.Add("imports").
		Source("import math").
		Setup()

	b.Add("area").
		Source("print(math.pi * 2**2)").
		Label("Circle area").
		FigCaption("Area of a circle with r=2")

	b.Add("answer").
		Source("print(42)").
		ReadOnly().
		Classes("solution", "hidden")

	// 2. Compile to Loader
	loader := b.Build()

	decls, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(decls) != 3 {
		t.Fatalf("Expected 3 declarations, got %d", len(decls))
	}

	// 3. Verify declaration order
	for i, want := range []string{"imports", "area", "answer"} {
		if decls[i].ID != want {
			t.Errorf("Expected declaration %d to be '%s', got '%s'", i, want, decls[i].ID)
		}
	}

	// 4. Verify specific cells
	if decls[0].Options.Context != domain.ContextSetup {
		t.Errorf("Expected 'imports' context 'setup', got '%s'", decls[0].Options.Context)
	}
	if decls[1].Options.Label != "Circle area" {
		t.Errorf("Expected label 'Circle area', got '%s'", decls[1].Options.Label)
	}
	if decls[1].Options.FigCaption == "" {
		t.Error("Expected 'area' to carry a fig caption")
	}
	if !decls[2].Options.ReadOnly {
		t.Error("Expected 'answer' to be read-only")
	}
	if len(decls[2].Options.Classes) != 2 {
		t.Errorf("Expected 2 classes, got %d", len(decls[2].Options.Classes))
	}
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := New()

	b.Add("cell").Source("print(1)")
	b.Add("cell").Label("Same cell")

	loader := b.Build()
	decls, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(decls) != 1 {
		t.Fatalf("Expected 1 declaration, got %d", len(decls))
	}
	if decls[0].Source != "print(1)" || decls[0].Options.Label != "Same cell" {
		t.Errorf("Expected both configurations on the same cell, got %+v", decls[0])
	}
}

func TestBuilder_ExtraOptions(t *testing.T) {
	b := New()
	b.Add("cell").Source("x").Option("layout", "wide")

	decls, err := b.Build().Load(context.Background())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if decls[0].Options.Extra["layout"] != "wide" {
		t.Errorf("Expected extra option to survive, got %+v", decls[0].Options.Extra)
	}
}
