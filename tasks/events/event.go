package events

import (
	"time"

	"task-registry/tasks"

	"github.com/google/uuid"
)

// Kind names what happened to a task.
type Kind string

const (
	KindCreated       Kind = "task.created"
	KindStatusUpdated Kind = "task.status_updated"
	KindDeleted       Kind = "task.deleted"
)

// Event records a single mutation of the task collection.
type Event struct {
	ID         string           `json:"id"`
	Kind       Kind             `json:"kind"`
	TaskID     string           `json:"task_id"`
	Status     tasks.TaskStatus `json:"status,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// New builds an event for task. Status is taken from the task when present.
func New(kind Kind, task *tasks.Task) *Event {
	ev := &Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		TaskID:     task.ID,
		OccurredAt: time.Now().UTC(),
	}
	if kind != KindDeleted {
		ev.Status = task.Status
	}
	return ev
}
