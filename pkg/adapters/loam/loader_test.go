package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcell/scriptcell/internal/testutils"
)

func TestLoaderLoadDeclarations(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)

	testutils.SaveCellDoc(t, repo, "plot.md", `---
id: plot
fig-cap: "Figure 1: sine wave"
order: 2
---
plot(sin(x))`)

	testutils.SaveCellDoc(t, repo, "intro.md", `---
context: setup
label: Preamble
classes: [hidden]
read-only: true
order: 1
---
import math`)

	loader := New(loam.NewTypedRepository[CellMetadata](repo))

	decls, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, decls, 2)

	// Declared order wins over filename order.
	intro := decls[0]
	assert.Equal(t, "intro", intro.ID)
	assert.Equal(t, "import math", intro.Source)
	assert.Equal(t, "setup", intro.Options.Context)
	assert.Equal(t, "Preamble", intro.Options.Label)
	assert.Equal(t, []string{"hidden"}, intro.Options.Classes)
	assert.True(t, intro.Options.ReadOnly)

	plot := decls[1]
	assert.Equal(t, "plot", plot.ID)
	assert.Equal(t, "plot(sin(x))", plot.Source)
	assert.Equal(t, "Figure 1: sine wave", plot.Options.FigCaption)
}

func TestLoaderFallsBackToFilenameID(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)

	testutils.SaveCellDoc(t, repo, "exercise.md", `---
label: Exercise
---
x = 1`)

	loader := New(loam.NewTypedRepository[CellMetadata](repo))

	decls, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "exercise", decls[0].ID)
}

func TestLoaderRejectsDuplicateIDs(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)

	testutils.SaveCellDoc(t, repo, "a.md", `---
id: same
---
x = 1`)
	testutils.SaveCellDoc(t, repo, "b.md", `---
id: same
---
x = 2`)

	loader := New(loam.NewTypedRepository[CellMetadata](repo))

	_, err := loader.Load(context.Background())
	assert.ErrorContains(t, err, `cell id "same"`)
}
