package workers

import (
	"context"
	"errors"
	"time"

	"task-registry/logger"
	"task-registry/tasks/events"
	"task-registry/tasks/queue"
)

// dequeueRetryDelay is how long a worker waits after a failed dequeue
const dequeueRetryDelay = 100 * time.Millisecond

// EventSink receives every event a worker takes off the queue
type EventSink interface {
	Handle(ctx context.Context, ev *events.Event) error
}

type Worker struct {
	id     int
	queue  queue.EventQueue
	sink   EventSink
	logger *logger.Logger
}

func NewWorker(id int, queue queue.EventQueue, sink EventSink, logger *logger.Logger) *Worker {
	return &Worker{
		id:     id,
		queue:  queue,
		sink:   sink,
		logger: logger,
	}
}

// Start begins worker's processing loop. It returns when ctx ends or the
// queue is closed.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("worker starting", map[string]any{
		"worker_id": w.id,
	})

	defer w.logger.Info("worker stopped", map[string]any{
		"worker_id": w.id,
	})

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopping due to context cancellation", map[string]any{
				"worker_id": w.id,
			})
			return

		default:
			if !w.processNextEvent(ctx) {
				return
			}
		}
	}
}

// processNextEvent handles one event and reports whether the loop should continue
func (w *Worker) processNextEvent(ctx context.Context) bool {
	ev, err := w.queue.Dequeue(ctx)
	if err != nil {
		// normal shutdown
		if ctx.Err() != nil {
			return false
		}

		if errors.Is(err, queue.ErrQueueClosed) {
			w.logger.Info("worker stopping because the queue is closed", map[string]any{
				"worker_id": w.id,
			})
			return false
		}

		w.logger.Error("failed to dequeue event", map[string]any{
			"worker_id": w.id,
			"error":     err,
		})

		select {
		case <-ctx.Done():
			return false
		case <-time.After(dequeueRetryDelay):
			return true
		}
	}

	if err := w.sink.Handle(ctx, ev); err != nil {
		w.logger.Error("failed to handle task event", map[string]any{
			"worker_id": w.id,
			"task_id":   ev.TaskID,
			"event_id":  ev.ID,
			"kind":      string(ev.Kind),
			"error":     err,
		})
		return true
	}

	w.logger.Task(ev.TaskID, "task event processed", map[string]any{
		"worker_id": w.id,
		"event_id":  ev.ID,
		"kind":      string(ev.Kind),
	})

	return true
}
