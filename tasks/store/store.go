package store

import "task-registry/tasks"

// TaskStore defines the contract for the task collection.
// Every task handed out is a copy; mutating it never affects stored state.
type TaskStore interface {
	List() []*tasks.Task
	Search(filter tasks.Filter) []*tasks.Task
	Get(id string) (*tasks.Task, error)
	Create(title, description string) (*tasks.Task, error)
	Delete(id string) error
	UpdateStatus(id string, status tasks.TaskStatus) (*tasks.Task, error)
}

// IDGenerator produces task identifiers.
type IDGenerator func() (string, error)
