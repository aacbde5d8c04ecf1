package manager

import (
	"context"
	"time"

	"task-registry/errors"
	"task-registry/logger"
	"task-registry/tasks"
	"task-registry/tasks/events"
	"task-registry/tasks/queue"
	"task-registry/tasks/store"
)

// Manager defines the contract for the task registry service.
type Manager interface {
	// ListTasks returns every task matching filter in creation order.
	// An empty filter returns the whole collection.
	ListTasks(ctx context.Context, filter tasks.Filter) ([]*tasks.Task, error)

	// GetTask retrieves a task by ID.
	GetTask(ctx context.Context, taskID string) (*tasks.Task, error)

	// CreateTask registers a new OPEN task.
	CreateTask(ctx context.Context, title, description string) (*tasks.Task, error)

	// DeleteTask removes a task. Its ID is never reused.
	DeleteTask(ctx context.Context, taskID string) error

	// UpdateTaskStatus sets the status of an existing task.
	UpdateTaskStatus(ctx context.Context, taskID string, status tasks.TaskStatus) (*tasks.Task, error)
}

// DefaultPublishTimeout bounds how long a mutation waits to hand its event to the queue.
const DefaultPublishTimeout = 250 * time.Millisecond

// manager wraps a TaskStore and publishes an event for every mutation.
type manager struct {
	store          store.TaskStore
	publisher      queue.EventQueue
	publishTimeout time.Duration
	logger         *logger.Logger
}

var _ Manager = (*manager)(nil)

// Option configures a manager.
type Option func(*manager)

// WithPublishTimeout overrides DefaultPublishTimeout.
func WithPublishTimeout(timeout time.Duration) Option {
	return func(m *manager) {
		if timeout > 0 {
			m.publishTimeout = timeout
		}
	}
}

// NewManager constructs a manager over store. A nil publisher disables task events.
func NewManager(store store.TaskStore, publisher queue.EventQueue, lg *logger.Logger, opts ...Option) Manager {
	m := &manager{
		store:          store,
		publisher:      publisher,
		publishTimeout: DefaultPublishTimeout,
		logger:         lg,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *manager) ListTasks(_ context.Context, filter tasks.Filter) ([]*tasks.Task, error) {
	if filter.IsEmpty() {
		return m.store.List(), nil
	}

	found := m.store.Search(filter)
	m.logger.Debug("tasks searched", map[string]any{
		"status":  filter.Status.String(),
		"search":  filter.Search,
		"matches": len(found),
	})
	return found, nil
}

func (m *manager) GetTask(_ context.Context, taskID string) (*tasks.Task, error) {
	task, err := m.store.Get(taskID)
	if err != nil {
		return nil, m.normalize(err, "failed to get task")
	}
	return task, nil
}

func (m *manager) CreateTask(ctx context.Context, title, description string) (*tasks.Task, error) {
	task, err := m.store.Create(title, description)
	if err != nil {
		return nil, m.normalize(err, "failed to create task")
	}

	m.logger.Task(task.ID, "task created", map[string]any{
		"status": task.Status.String(),
	})

	m.publish(ctx, events.KindCreated, task)
	return task, nil
}

func (m *manager) DeleteTask(ctx context.Context, taskID string) error {
	task, err := m.store.Get(taskID)
	if err != nil {
		return m.normalize(err, "failed to delete task")
	}

	if err := m.store.Delete(taskID); err != nil {
		return m.normalize(err, "failed to delete task")
	}

	m.logger.Task(taskID, "task deleted")

	m.publish(ctx, events.KindDeleted, task)
	return nil
}

func (m *manager) UpdateTaskStatus(ctx context.Context, taskID string, status tasks.TaskStatus) (*tasks.Task, error) {
	task, err := m.store.UpdateStatus(taskID, status)
	if err != nil {
		return nil, m.normalize(err, "failed to update task status")
	}

	m.logger.Task(taskID, "task status updated", map[string]any{
		"status": task.Status.String(),
	})

	m.publish(ctx, events.KindStatusUpdated, task)
	return task, nil
}

// publish enqueues an event for task. The mutation already happened, so a
// full or closed queue only costs the event: failures are logged and the
// wait is bounded by publishTimeout, detached from request cancellation.
func (m *manager) publish(ctx context.Context, kind events.Kind, task *tasks.Task) {
	if m.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.publishTimeout)
	defer cancel()

	ev := events.New(kind, task)
	if err := m.publisher.Enqueue(ctx, ev); err != nil {
		m.logger.Error("failed to publish task event", map[string]any{
			"task_id":  task.ID,
			"event_id": ev.ID,
			"kind":     string(kind),
			"error":    err,
		})
	}
}

// normalize passes TaskErrors through and hides anything else behind an internal error.
func (m *manager) normalize(err error, message string) error {
	if _, ok := errors.IsTaskError(err); ok {
		return err
	}
	m.logger.Error(message, map[string]any{
		"error": err,
	})
	return errors.NewInternalError(message)
}
