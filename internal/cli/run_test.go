package cli

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcell/scriptcell"
	"github.com/scriptcell/scriptcell/pkg/adapters/memory"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

func newTestNotebook(t *testing.T, decls ...domain.Declaration) *scriptcell.Notebook {
	t.Helper()

	interp := memory.NewInterpreter(memory.WithRunFunc(
		func(_ context.Context, it *memory.Interpreter, source string) (any, error) {
			it.EmitStdout(source + "\n")
			return nil, nil
		},
	))

	nb, err := scriptcell.New("",
		scriptcell.WithLoader(memory.NewLoader(decls...)),
		scriptcell.WithInterpreter(interp),
	)
	require.NoError(t, err)
	t.Cleanup(func() { nb.Close() })
	return nb
}

func TestRunCellsSkipsSetup(t *testing.T) {
	nb := newTestNotebook(t,
		domain.Declaration{ID: "prep", Options: domain.CellOptions{Context: domain.ContextSetup}},
		domain.Declaration{ID: "a", Source: "print(1)"},
		domain.Declaration{ID: "b", Source: "print(2)"},
	)

	ran, err := runCells(context.Background(), nb, RunOptions{JSON: true})
	require.NoError(t, err)
	assert.Equal(t, 2, ran)
}

func TestRunCellsSingleCell(t *testing.T) {
	nb := newTestNotebook(t,
		domain.Declaration{ID: "a", Source: "print(1)"},
		domain.Declaration{ID: "b", Source: "print(2)"},
	)

	ran, err := runCells(context.Background(), nb, RunOptions{CellID: "b", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, 1, ran)

	_, err = runCells(context.Background(), nb, RunOptions{CellID: "ghost", JSON: true})
	assert.ErrorIs(t, err, domain.ErrCellNotFound)
}

func TestCreateNotebookRequiresPath(t *testing.T) {
	_, err := createNotebook(RunOptions{}, createLogger(false))
	assert.Error(t, err)
}

func TestCreateRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Ping(context.Background()))

	_, err = NewRedisStore("not-a-url")
	assert.Error(t, err)
}
