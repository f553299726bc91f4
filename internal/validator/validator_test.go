package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scriptcell/scriptcell/pkg/adapters/memory"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

func TestValidDocumentPasses(t *testing.T) {
	loader := memory.NewLoader(
		domain.Declaration{ID: "prep", Source: "import math", Options: domain.CellOptions{Context: domain.ContextSetup}},
		domain.Declaration{ID: "main", Source: "print(1)"},
	)

	assert.NoError(t, ValidateDocument(context.Background(), loader))
}

func TestUnknownContextTag(t *testing.T) {
	loader := memory.NewLoader(
		domain.Declaration{ID: "odd", Source: "x", Options: domain.CellOptions{Context: "mystery"}},
	)

	err := ValidateDocument(context.Background(), loader)
	assert.ErrorContains(t, err, "unknown context tag 'mystery'")
}

func TestFigCaptionOnSetupCell(t *testing.T) {
	loader := memory.NewLoader(
		domain.Declaration{ID: "prep", Source: "x", Options: domain.CellOptions{
			Context:    domain.ContextSetup,
			FigCaption: "a figure",
		}},
	)

	err := ValidateDocument(context.Background(), loader)
	assert.ErrorContains(t, err, "fig-cap has no effect")
}

func TestReadOnlyEmptySource(t *testing.T) {
	loader := memory.NewLoader(
		domain.Declaration{ID: "blank", Options: domain.CellOptions{ReadOnly: true}},
	)

	err := ValidateDocument(context.Background(), loader)
	assert.ErrorContains(t, err, "read-only with empty source")
}

func TestCollectsAllErrors(t *testing.T) {
	loader := memory.NewLoader(
		domain.Declaration{ID: "a", Options: domain.CellOptions{Context: "bogus"}},
		domain.Declaration{ID: "", Source: "x"},
	)

	err := ValidateDocument(context.Background(), loader)
	assert.ErrorContains(t, err, "found 2 errors")
}
