package events

import (
	"context"
	"sync"
)

// Recorder keeps the most recent processed events in a fixed-size ring.
type Recorder struct {
	mu    sync.RWMutex
	buf   []Event
	next  int
	count int
}

// NewRecorder creates a recorder holding at most capacity events.
func NewRecorder(capacity int) *Recorder {
	if capacity < 1 {
		capacity = 1
	}
	return &Recorder{buf: make([]Event, capacity)}
}

// Handle stores a copy of ev, evicting the oldest entry when full.
func (r *Recorder) Handle(_ context.Context, ev *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = *ev
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
	return nil
}

// Recent returns up to limit events, newest first. A non-positive limit returns all.
func (r *Recorder) Recent(limit int) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > r.count {
		limit = r.count
	}

	out := make([]Event, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + len(r.buf)) % len(r.buf)
		out = append(out, r.buf[idx])
	}
	return out
}

// Len returns the number of events currently held.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}
