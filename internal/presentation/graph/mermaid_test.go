package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

func TestGenerateMermaidShapes(t *testing.T) {
	decls := []domain.Declaration{
		{ID: "prep", Options: domain.CellOptions{Context: domain.ContextSetup}},
		{ID: "calc", Source: "print(1)"},
		{ID: "result", Options: domain.CellOptions{Context: domain.ContextOutput}},
	}

	out := GenerateMermaid(decls, nil)

	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, `prep(("prep"))`)
	assert.Contains(t, out, `calc[/"calc"/]`)
	assert.Contains(t, out, `result[["result"]]`)
	// Document order chain
	assert.Contains(t, out, "prep --> calc")
	assert.Contains(t, out, "calc --> result")
}

func TestGenerateMermaidLabelsAndReadOnly(t *testing.T) {
	decls := []domain.Declaration{
		{ID: "locked", Source: "x", Options: domain.CellOptions{
			Label:    "Demo",
			ReadOnly: true,
		}},
	}

	out := GenerateMermaid(decls, nil)
	assert.Contains(t, out, `locked[/"Demo <br/> 🔒"/]`)
}

func TestGenerateMermaidOverlay(t *testing.T) {
	decls := []domain.Declaration{
		{ID: "a", Source: "1"},
		{ID: "b-cell", Source: "2"},
	}

	out := GenerateMermaid(decls, &Overlay{
		RanCells:    []string{"a", "a"},
		RunningCell: "b-cell",
	})

	assert.Equal(t, 1, strings.Count(out, "class a ran;"))
	assert.Contains(t, out, "class b_cell running;")
}
