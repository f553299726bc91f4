package scriptcell_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcell/scriptcell"
	"github.com/scriptcell/scriptcell/pkg/adapters/memory"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

func echoInterpreter() *memory.Interpreter {
	return memory.NewInterpreter(memory.WithRunFunc(
		func(_ context.Context, it *memory.Interpreter, source string) (any, error) {
			it.EmitStdout(source + "\n")
			return nil, nil
		},
	))
}

func newNotebook(t *testing.T, decls ...domain.Declaration) *scriptcell.Notebook {
	t.Helper()

	nb, err := scriptcell.New("",
		scriptcell.WithLoader(memory.NewLoader(decls...)),
		scriptcell.WithInterpreter(echoInterpreter()),
		scriptcell.WithSession("test-session"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { nb.Close() })
	return nb
}

func TestNewRequiresLoaderOrPath(t *testing.T) {
	_, err := scriptcell.New("")
	assert.ErrorContains(t, err, "repoPath is required")
}

func TestRunCellPersistsOutcome(t *testing.T) {
	nb := newNotebook(t, domain.Declaration{ID: "c1", Source: "print(1+1)"})

	ctx := context.Background()
	out, err := nb.RunCell(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "print(1+1)\n", out.Block)

	saved, err := nb.LastOutcome(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, out.RunID, saved.RunID)
}

func TestRunCellUnknownID(t *testing.T) {
	nb := newNotebook(t)

	_, err := nb.RunCell(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrCellNotFound)
}

func TestBootstrapRunsOnlySetupCells(t *testing.T) {
	nb := newNotebook(t,
		domain.Declaration{ID: "prep", Source: "import math",
			Options: domain.CellOptions{Context: domain.ContextSetup}},
		domain.Declaration{ID: "main", Source: "print(1)"},
	)

	ctx := context.Background()
	require.NoError(t, nb.Bootstrap(ctx))

	// Only the setup cell ran; the interactive one has no saved outcome...
	_, err := nb.LastOutcome(ctx, "main")
	assert.ErrorIs(t, err, domain.ErrOutcomeNotFound)
}

func TestResetClearsPersistedOutcome(t *testing.T) {
	nb := newNotebook(t, domain.Declaration{ID: "c1", Source: "x = 1"})

	ctx := context.Background()
	_, err := nb.RunCell(ctx, "c1")
	require.NoError(t, err)

	require.NoError(t, nb.SetSource("c1", 0, "x = 2"))
	require.NoError(t, nb.ResetCell(ctx, "c1", 0))

	src, err := nb.Source("c1", 0)
	require.NoError(t, err)
	assert.Equal(t, "x = 1", src)

	_, err = nb.LastOutcome(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrOutcomeNotFound)
}

func TestAppendBlockThroughFacade(t *testing.T) {
	nb := newNotebook(t, domain.Declaration{ID: "c1", Source: "alpha"})

	block, err := nb.AppendBlock("c1")
	require.NoError(t, err)
	assert.Equal(t, 1, block)

	require.NoError(t, nb.SetSource("c1", block, "beta"))
	out, err := nb.RunBlock(context.Background(), "c1", block)
	require.NoError(t, err)
	assert.Equal(t, "beta\n", out.Block)

	_, err = nb.AppendBlock("c1")
	assert.ErrorIs(t, err, domain.ErrBlockAppended)
}

func TestCellsPreserveDocumentOrder(t *testing.T) {
	nb := newNotebook(t,
		domain.Declaration{ID: "first"},
		domain.Declaration{ID: "second"},
		domain.Declaration{ID: "third"},
	)

	var ids []string
	for _, c := range nb.Cells() {
		ids = append(ids, c.ID())
	}
	assert.Equal(t, []string{"first", "second", "third"}, ids)
}

func TestLockVisibleThroughFacade(t *testing.T) {
	nb := newNotebook(t, domain.Declaration{ID: "c1", Source: "x"})

	require.True(t, nb.Lock().TryAcquire())
	out, err := nb.RunCell(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, out.Dropped)
	nb.Lock().Release()

	out, err = nb.RunCell(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, out.Dropped)
}
