package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

func TestCollectorAggregatesRuns(t *testing.T) {
	c := NewCollector()
	hooks := c.Hooks()
	ctx := context.Background()

	start := time.Now()
	hooks.OnRunStart(ctx, &domain.RunEvent{Timestamp: start, RunID: "r1", CellID: "a"})
	hooks.OnRunEnd(ctx, &domain.RunEvent{Timestamp: start.Add(30 * time.Millisecond), RunID: "r1", CellID: "a"})

	hooks.OnRunStart(ctx, &domain.RunEvent{Timestamp: start, RunID: "r2", CellID: "a"})
	hooks.OnRunEnd(ctx, &domain.RunEvent{Timestamp: start.Add(10 * time.Millisecond), RunID: "r2", CellID: "a", IsError: true})

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Runs)
	assert.Equal(t, 1, snap.Errors)

	stats, ok := snap.Cells["a"]
	require.True(t, ok)
	assert.Equal(t, 2, stats.Runs)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, "r2", stats.LastRunID)
	assert.Equal(t, "script_error", stats.LastStatus)
	assert.Equal(t, 40*time.Millisecond, stats.TotalTime)
}

func TestSnapshotIsACopy(t *testing.T) {
	c := NewCollector()
	hooks := c.Hooks()
	ctx := context.Background()

	hooks.OnRunEnd(ctx, &domain.RunEvent{RunID: "r1", CellID: "a"})

	snap := c.Snapshot()
	snap.Cells["a"] = CellStats{Runs: 99}

	assert.Equal(t, 1, c.Snapshot().Cells["a"].Runs)
}

func TestEndWithoutStart(t *testing.T) {
	c := NewCollector()
	c.Hooks().OnRunEnd(context.Background(), &domain.RunEvent{RunID: "orphan", CellID: "a"})

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Runs)
	assert.Equal(t, time.Duration(0), snap.Cells["a"].TotalTime)
}
