package otel

import (
	"maps"
	"sync"
)

// DefaultRingSize holds a few minutes of normal browsing.
const DefaultRingSize = 512

// RingBuffer keeps the most recent events in memory for the debug overlay.
// Safe for concurrent use.
type RingBuffer struct {
	mu     sync.Mutex
	events []Event
	size   int
	next   int // slot the next Push writes
	n      int // filled slots, at most size
}

// NewRingBuffer returns a ring holding size events; size <= 0 means
// DefaultRingSize.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{events: make([]Event, size), size: size}
}

// oldest maps i, counted from the oldest buffered event, to a slot.
// Callers hold mu.
func (r *RingBuffer) oldest(i int) int {
	return (r.next - r.n + i + r.size) % r.size
}

// Push stores e, evicting the oldest event once full. Extra is cloned so
// the caller may keep mutating its map.
func (r *RingBuffer) Push(e Event) {
	e.Extra = maps.Clone(e.Extra)

	r.mu.Lock()
	r.events[r.next] = e
	r.next = (r.next + 1) % r.size
	r.n = min(r.n+1, r.size)
	r.mu.Unlock()
}

// Snapshot copies out every buffered event, oldest first.
func (r *RingBuffer) Snapshot() []Event {
	return r.Last(r.Cap())
}

// Last copies out the n newest events, oldest first.
func (r *RingBuffer) Last(n int) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	n = min(n, r.n)
	if n <= 0 {
		return nil
	}
	out := make([]Event, n)
	skip := r.n - n
	for i := range out {
		out[i] = r.events[r.oldest(skip+i)]
	}
	return out
}

// Len is the number of buffered events.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Cap is the ring size.
func (r *RingBuffer) Cap() int {
	return r.size
}

// Problems returns up to n warn or error events, newest first.
func (r *RingBuffer) Problems(n int) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for i := r.n - 1; i >= 0 && len(out) < n; i-- {
		e := r.events[r.oldest(i)]
		if e.Level == LevelWarn || e.Level == LevelError {
			out = append(out, e)
		}
	}
	return out
}

// Stats counts buffered events per kind.
func (r *RingBuffer) Stats() map[EventKind]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[EventKind]int)
	for i := 0; i < r.n; i++ {
		counts[r.events[r.oldest(i)].Kind]++
	}
	return counts
}
