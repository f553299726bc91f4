package ports

import (
	"context"
	"testing"
	"time"

	"github.com/scriptcell/scriptcell/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract runs a suite of tests verifying that a RunStore
// implementation adheres to the interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	sessionID := "contract-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		out := &domain.Outcome{
			RunID: "run-1",
			Block: "2\n",
			Value: "2",
			Artifact: &domain.Artifact{
				Elements: []domain.Drawable{{MIME: "image/svg+xml", Data: []byte("<svg/>")}},
				Caption:  "a figure",
			},
		}

		err := store.Save(ctx, sessionID, "cell-a", out)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID, "cell-a")
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, out.RunID, loaded.RunID)
		assert.Equal(t, out.Block, loaded.Block)
		require.NotNil(t, loaded.Artifact)
		assert.Equal(t, "a figure", loaded.Artifact.Caption)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, sessionID, "no-such-cell")
		assert.ErrorIs(t, err, domain.ErrOutcomeNotFound)
	})

	t.Run("Replace", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, "cell-b", &domain.Outcome{RunID: "old", Block: "old"}))
		require.NoError(t, store.Save(ctx, sessionID, "cell-b", &domain.Outcome{RunID: "new", Block: "new"}))

		loaded, err := store.Load(ctx, sessionID, "cell-b")
		require.NoError(t, err)
		assert.Equal(t, "new", loaded.RunID, "a later save replaces the earlier outcome")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, "cell-c", &domain.Outcome{RunID: "run-c"}))

		err := store.Delete(ctx, sessionID, "cell-c")
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID, "cell-c")
		assert.ErrorIs(t, err, domain.ErrOutcomeNotFound, "Load after Delete should miss")
	})

	t.Run("List", func(t *testing.T) {
		other := sessionID + "-list"
		require.NoError(t, store.Save(ctx, other, "cell-1", &domain.Outcome{RunID: "r1"}))
		require.NoError(t, store.Save(ctx, other, "cell-2", &domain.Outcome{RunID: "r2"}))

		ids, err := store.List(ctx, other)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"cell-1", "cell-2"}, ids)
	})
}
