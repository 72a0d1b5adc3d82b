package server

import (
	"sync"
	"time"

	"github.com/spektr-org/asksql/pipeline"
)

// Entry is one answered question kept in the history.
type Entry struct {
	ID        string           `json:"id"`
	RequestID string           `json:"requestId,omitempty"`
	AskedAt   time.Time        `json:"askedAt"`
	Answer    *pipeline.Answer `json:"answer"`
}

// History is a fixed-size, mutex-guarded ring of recent entries.
type History struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewHistory creates a history holding at most size entries.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{entries: make([]Entry, size)}
}

// Add stores e, evicting the oldest entry when full.
func (h *History) Add(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.next] = e
	h.next = (h.next + 1) % len(h.entries)
	if h.next == 0 {
		h.full = true
	}
}

// List returns the entries newest first.
func (h *History) List() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := h.next
	if h.full {
		n = len(h.entries)
	}
	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		idx := (h.next - i + len(h.entries)) % len(h.entries)
		out = append(out, h.entries[idx])
	}
	return out
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.full {
		return len(h.entries)
	}
	return h.next
}
