package observability

import (
	"context"
	"sync"
	"time"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

// CellStats aggregates the runs of one cell.
type CellStats struct {
	Runs       int           `json:"runs"`
	Errors     int           `json:"errors"`
	LastRunID  string        `json:"last_run_id"`
	TotalTime  time.Duration `json:"total_time"`
	LastStatus string        `json:"last_status"`
}

// Snapshot is a point-in-time view of the collected run statistics.
type Snapshot struct {
	Runs   int                  `json:"runs"`
	Errors int                  `json:"errors"`
	Cells  map[string]CellStats `json:"cells"`
}

// Collector aggregates lifecycle events into per-cell run statistics. It is
// safe for concurrent use; hosts hang its Hooks() into the notebook and read
// snapshots whenever they need a summary.
type Collector struct {
	mu      sync.Mutex
	runs    int
	errors  int
	cells   map[string]CellStats
	started map[string]time.Time
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		cells:   make(map[string]CellStats),
		started: make(map[string]time.Time),
	}
}

// Hooks returns lifecycle hooks that feed this collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: c.onStart,
		OnRunEnd:   c.onEnd,
	}
}

func (c *Collector) onStart(_ context.Context, e *domain.RunEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started[e.RunID] = e.Timestamp
}

func (c *Collector) onEnd(_ context.Context, e *domain.RunEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.runs++
	stats := c.cells[e.CellID]
	stats.Runs++
	stats.LastRunID = e.RunID
	stats.LastStatus = "ok"
	if e.IsError {
		c.errors++
		stats.Errors++
		stats.LastStatus = "script_error"
	}
	if start, ok := c.started[e.RunID]; ok {
		stats.TotalTime += e.Timestamp.Sub(start)
		delete(c.started, e.RunID)
	}
	c.cells[e.CellID] = stats
}

// Snapshot returns a copy of the current statistics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	cells := make(map[string]CellStats, len(c.cells))
	for id, stats := range c.cells {
		cells[id] = stats
	}
	return Snapshot{
		Runs:   c.runs,
		Errors: c.errors,
		Cells:  cells,
	}
}
