package memory

import (
	"strings"
	"sync"
)

// Buffer implements ports.TextBuffer in memory. The real editor widget lives
// in the page; this buffer mirrors its text, selection and cursor so headless
// hosts and tests can drive the same run commands.
type Buffer struct {
	mu     sync.RWMutex
	text   string
	sel    string
	hasSel bool
	line   int
}

// NewBuffer creates a buffer holding the given text.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text}
}

// Text returns the full content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// SetText replaces the content, dropping selection and resetting the cursor.
func (b *Buffer) SetText(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = s
	b.sel = ""
	b.hasSel = false
	b.line = 0
}

// Selection returns the selected text and whether a selection exists.
func (b *Buffer) Selection() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sel, b.hasSel
}

// Select marks a selection, as the editor widget would on mouse drag.
func (b *Buffer) Select(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sel = s
	b.hasSel = true
}

// ClearSelection removes the selection.
func (b *Buffer) ClearSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sel = ""
	b.hasSel = false
}

// MoveCursor places the cursor on a zero-based line.
func (b *Buffer) MoveCursor(line int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.line = line
}

// CurrentLine returns the line under the cursor.
func (b *Buffer) CurrentLine() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lines := strings.Split(b.text, "\n")
	if len(lines) == 0 {
		return ""
	}
	i := b.line
	if i < 0 {
		i = 0
	}
	if i >= len(lines) {
		i = len(lines) - 1
	}
	return lines[i]
}
