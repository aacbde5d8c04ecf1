package queue

import (
	"context"
	"sync"

	"task-registry/tasks/events"
)

// MemoryEventQueue is a bounded in-process FIFO.
type MemoryEventQueue struct {
	items     chan *events.Event
	done      chan struct{}
	closeOnce sync.Once
}

var _ EventQueue = (*MemoryEventQueue)(nil)

// NewMemoryEventQueue creates a queue that holds up to capacity pending events.
// Enqueue blocks while the queue is full.
func NewMemoryEventQueue(capacity int) *MemoryEventQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryEventQueue{
		items: make(chan *events.Event, capacity),
		done:  make(chan struct{}),
	}
}

func (q *MemoryEventQueue) Enqueue(ctx context.Context, ev *events.Event) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	select {
	case q.items <- ev:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryEventQueue) Dequeue(ctx context.Context) (*events.Event, error) {
	select {
	case ev := <-q.items:
		return ev, nil
	case <-q.done:
		return nil, ErrQueueClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemoryEventQueue) GetQueueDepth(_ context.Context) (int64, error) {
	return int64(len(q.items)), nil
}

// Close wakes blocked callers. Events still buffered may be dropped.
func (q *MemoryEventQueue) Close() error {
	q.closeOnce.Do(func() {
		close(q.done)
	})
	return nil
}
