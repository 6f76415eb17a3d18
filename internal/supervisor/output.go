package supervisor

import (
	"sync"
	"time"
)

// DefaultOutputLines is the number of backend output lines retained.
const DefaultOutputLines = 200

// Line is one line of captured backend output.
type Line struct {
	Time   time.Time `json:"time"`
	Pid    int       `json:"pid"`
	Stream string    `json:"stream"`
	Text   string    `json:"text"`
}

// OutputBuffer keeps the most recent lines written by backend processes.
// It is safe for concurrent use.
type OutputBuffer struct {
	mu sync.Mutex
	// +checklocks:mu
	lines []Line
	// +checklocks:mu
	next int
	// +checklocks:mu
	full bool
}

// NewOutputBuffer creates a buffer holding up to size lines.
// A non-positive size uses DefaultOutputLines.
func NewOutputBuffer(size int) *OutputBuffer {
	if size <= 0 {
		size = DefaultOutputLines
	}
	return &OutputBuffer{lines: make([]Line, size)}
}

// Add appends a line, evicting the oldest once the buffer is full.
func (b *OutputBuffer) Add(l Line) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines[b.next] = l
	b.next = (b.next + 1) % len(b.lines)
	if b.next == 0 {
		b.full = true
	}
}

// Lines returns up to limit of the most recent lines, oldest first.
// A non-positive limit returns everything retained.
func (b *OutputBuffer) Lines(limit int) []Line {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Line
	if b.full {
		out = make([]Line, 0, len(b.lines))
		out = append(out, b.lines[b.next:]...)
		out = append(out, b.lines[:b.next]...)
	} else {
		out = make([]Line, b.next)
		copy(out, b.lines[:b.next])
	}

	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Len returns the number of retained lines.
func (b *OutputBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.full {
		return len(b.lines)
	}
	return b.next
}
