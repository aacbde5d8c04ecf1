package queue

import (
	"context"
	"errors"

	"task-registry/tasks/events"
)

// ErrQueueClosed is returned by operations on a closed queue.
var ErrQueueClosed = errors.New("event queue is closed")

// EventQueue carries task events from the request path to background workers
type EventQueue interface {
	// Enqueue adds an event to the tail of the queue
	Enqueue(ctx context.Context, ev *events.Event) error

	// Dequeue blocks until an event is available, the context ends or the queue closes
	Dequeue(ctx context.Context) (*events.Event, error)

	// GetQueueDepth returns the number of events waiting in queue
	GetQueueDepth(ctx context.Context) (int64, error)

	// Close cleanly shuts down the queue
	Close() error
}
