package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"task-registry/tasks"
	"task-registry/tasks/events"

	"gotest.tools/v3/assert"
)

// Helper function to create a test event
func createTestEvent(taskID string, kind events.Kind) *events.Event {
	return events.New(kind, tasks.NewTask(taskID, "title "+taskID, "description"))
}

// Test helper for common queue operations
func testQueueBasicOperations(t *testing.T, queue EventQueue) {
	ctx := context.Background()

	original := createTestEvent("task-1", events.KindCreated)

	err := queue.Enqueue(ctx, original)
	assert.NilError(t, err, "Failed to enqueue event")

	depth, err := queue.GetQueueDepth(ctx)
	assert.NilError(t, err, "Failed to get queue depth")
	assert.Equal(t, int64(1), depth, "Queue depth should be 1 after enqueue")

	dequeued, err := queue.Dequeue(ctx)
	assert.NilError(t, err, "Failed to dequeue event")
	assert.Assert(t, dequeued != nil, "Dequeued event should not be nil")

	assert.Equal(t, original.ID, dequeued.ID)
	assert.Equal(t, original.Kind, dequeued.Kind)
	assert.Equal(t, original.TaskID, dequeued.TaskID)
	assert.Equal(t, original.Status, dequeued.Status)
	assert.Assert(t, original.OccurredAt.Equal(dequeued.OccurredAt))

	depth, err = queue.GetQueueDepth(ctx)
	assert.NilError(t, err, "Failed to get queue depth after dequeue")
	assert.Equal(t, int64(0), depth, "Queue should be empty after dequeue")
}

func testQueueFIFOOrdering(t *testing.T, queue EventQueue) {
	ctx := context.Background()

	queued := []*events.Event{
		createTestEvent("first", events.KindCreated),
		createTestEvent("second", events.KindStatusUpdated),
		createTestEvent("third", events.KindDeleted),
	}

	for _, ev := range queued {
		assert.NilError(t, queue.Enqueue(ctx, ev), "Failed to enqueue event")
	}

	depth, err := queue.GetQueueDepth(ctx)
	assert.NilError(t, err, "Failed to get queue depth")
	assert.Equal(t, int64(3), depth, "Queue depth should be 3")

	for i, expected := range queued {
		got, err := queue.Dequeue(ctx)
		assert.NilError(t, err, "Failed to dequeue event %d", i)
		assert.Equal(t, expected.TaskID, got.TaskID, "Event %d out of order", i)
		assert.Equal(t, expected.Kind, got.Kind, "Event %d kind mismatch", i)
	}

	depth, err = queue.GetQueueDepth(ctx)
	assert.NilError(t, err, "Failed to get final queue depth")
	assert.Equal(t, int64(0), depth, "Queue should be empty")
}

func testQueueConcurrency(t *testing.T, queue EventQueue) {
	ctx := context.Background()
	numEvents := 10

	enqueueDone := make(chan struct{})
	go func() {
		defer close(enqueueDone)
		for i := 0; i < numEvents; i++ {
			err := queue.Enqueue(ctx, createTestEvent(fmt.Sprintf("task-%d", i), events.KindCreated))
			assert.Check(t, err == nil, "Failed to enqueue concurrent event %d: %v", i, err)
		}
	}()
	<-enqueueDone

	depth, err := queue.GetQueueDepth(ctx)
	assert.NilError(t, err, "Failed to get queue depth")
	assert.Equal(t, int64(numEvents), depth, "All events should be enqueued")

	results := make(chan *events.Event, numEvents)
	errs := make(chan error, numEvents)

	for i := 0; i < numEvents; i++ {
		go func() {
			ev, err := queue.Dequeue(ctx)
			if err != nil {
				errs <- err
			} else {
				results <- ev
			}
		}()
	}

	seen := make(map[string]bool)
	for i := 0; i < numEvents; i++ {
		select {
		case ev := <-results:
			seen[ev.TaskID] = true
		case err := <-errs:
			t.Fatalf("Error during concurrent dequeue: %v", err)
		case <-time.After(1 * time.Second):
			t.Fatalf("Timeout waiting for concurrent dequeue %d", i)
		}
	}

	assert.Equal(t, numEvents, len(seen), "Should have dequeued every event exactly once")

	depth, err = queue.GetQueueDepth(ctx)
	assert.NilError(t, err, "Failed to get final queue depth")
	assert.Equal(t, int64(0), depth, "Queue should be empty after concurrent operations")
}
