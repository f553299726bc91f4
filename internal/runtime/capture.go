package runtime

import (
	"strings"
	"sync"

	"github.com/scriptcell/scriptcell/pkg/domain"
)

// Capture accumulates the ordered stream records of one run. It is reset at
// the start of every run and drained into a single block afterwards.
type Capture struct {
	mu      sync.Mutex
	records []domain.Record
}

// NewCapture creates an empty capture buffer.
func NewCapture() *Capture {
	return &Capture{}
}

// Reset discards everything captured so far.
func (c *Capture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = c.records[:0]
}

// Append records one stream write in emission order.
func (c *Capture) Append(kind domain.StreamKind, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, domain.Record{Kind: kind, Text: text})
}

// Records returns a copy of the captured records.
func (c *Capture) Records() []domain.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Record, len(c.records))
	copy(out, c.records)
	return out
}

// Drain joins every record into one formatted block, preserving emission
// order across both streams. Writes that do not end in a newline get one, so
// interleaved stdout/stderr stay line-separated.
func (c *Capture) Drain() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	for _, r := range c.records {
		b.WriteString(r.Text)
		if !strings.HasSuffix(r.Text, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
