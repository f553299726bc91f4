package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcell/scriptcell"
	"github.com/scriptcell/scriptcell/pkg/adapters/memory"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

func newTestServer(t *testing.T, decls ...domain.Declaration) *Server {
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

	return NewServer(nb, "test")
}

func TestRunCellHandler(t *testing.T) {
	s := newTestServer(t, domain.Declaration{ID: "c1", Source: "print(1+1)"})

	resp, err := s.handleRunCell(context.Background(), mcp.CallToolRequest{},
		map[string]interface{}{"id": "c1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RunID)
	assert.False(t, resp.Dropped)
	assert.Equal(t, "print(1+1)\n", resp.Block)
	assert.Empty(t, resp.Error)
}

func TestRunCellHandlerUnknownCell(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleRunCell(context.Background(), mcp.CallToolRequest{},
		map[string]interface{}{"id": "ghost"})
	assert.ErrorIs(t, err, domain.ErrCellNotFound)
}

func TestSetSourceHandler(t *testing.T) {
	s := newTestServer(t,
		domain.Declaration{ID: "c1", Source: "old"},
		domain.Declaration{ID: "locked", Source: "x", Options: domain.CellOptions{ReadOnly: true}},
	)

	info, err := s.handleSetSource(context.Background(), mcp.CallToolRequest{},
		map[string]interface{}{"id": "c1", "code": "new"})
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, info.Sources)

	_, err = s.handleSetSource(context.Background(), mcp.CallToolRequest{},
		map[string]interface{}{"id": "locked", "code": "hacked"})
	assert.ErrorIs(t, err, domain.ErrReadOnly)
}

func TestResetCellHandler(t *testing.T) {
	s := newTestServer(t, domain.Declaration{ID: "c1", Source: "original"})

	_, err := s.handleSetSource(context.Background(), mcp.CallToolRequest{},
		map[string]interface{}{"id": "c1", "code": "edited"})
	require.NoError(t, err)

	resp, err := s.handleResetCell(context.Background(), mcp.CallToolRequest{},
		map[string]interface{}{"id": "c1"})
	require.NoError(t, err)
	assert.Equal(t, "reset", resp.Status)

	info, err := s.handleGetCell(context.Background(), mcp.CallToolRequest{},
		map[string]interface{}{"id": "c1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"original"}, info.Sources)
}

func TestAppendBlockHandler(t *testing.T) {
	s := newTestServer(t, domain.Declaration{ID: "c1", Source: "seed"})

	resp, err := s.handleAppendBlock(context.Background(), mcp.CallToolRequest{},
		map[string]interface{}{"id": "c1"})
	require.NoError(t, err)
	assert.Equal(t, "appended", resp.Status)
	assert.Equal(t, 1, resp.Block)

	// The second block runs from its own buffer, addressed by the block arg.
	_, err = s.handleSetSource(context.Background(), mcp.CallToolRequest{},
		map[string]interface{}{"id": "c1", "code": "beta", "block": float64(1)})
	require.NoError(t, err)

	run, err := s.handleRunCell(context.Background(), mcp.CallToolRequest{},
		map[string]interface{}{"id": "c1", "block": float64(1)})
	require.NoError(t, err)
	assert.Equal(t, "beta\n", run.Block)

	_, err = s.handleAppendBlock(context.Background(), mcp.CallToolRequest{},
		map[string]interface{}{"id": "c1"})
	assert.ErrorIs(t, err, domain.ErrBlockAppended)
}
