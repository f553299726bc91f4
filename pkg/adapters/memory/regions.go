package memory

import (
	"sync"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

// Region implements ports.OutputRegion in memory. Safe for concurrent use.
type Region struct {
	mu      sync.RWMutex
	content string
	empty   bool
}

// NewRegion creates an empty, hidden region.
func NewRegion() *Region {
	return &Region{empty: true}
}

// Show replaces the content and marks the region non-empty.
func (r *Region) Show(content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content = content
	r.empty = false
}

// Reset clears the content and marks the region empty.
func (r *Region) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content = ""
	r.empty = true
}

// IsEmpty reports whether the region renders nothing.
func (r *Region) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.empty
}

// Content returns the rendered text.
func (r *Region) Content() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.content
}

// Canvas implements ports.GraphicRegion in memory.
type Canvas struct {
	mu       sync.RWMutex
	artifact *domain.Artifact
}

// NewCanvas creates an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// Append attaches the run's artifact container.
func (c *Canvas) Append(a *domain.Artifact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artifact = a
}

// Reset removes any artifact.
func (c *Canvas) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artifact = nil
}

// IsEmpty reports whether the canvas renders nothing.
func (c *Canvas) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.artifact == nil
}

// Artifact returns the rendered container, nil when empty.
func (c *Canvas) Artifact() *domain.Artifact {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.artifact
}
