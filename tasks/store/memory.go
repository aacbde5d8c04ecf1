package store

import (
	"fmt"
	"strings"
	"sync"

	"task-registry/errors"
	"task-registry/tasks"

	"github.com/google/uuid"
)

// Compile-time check to ensure MemoryTaskStore implements TaskStore interface
var _ TaskStore = (*MemoryTaskStore)(nil)

// MemoryTaskStore keeps tasks in process memory, ordered by creation.
type MemoryTaskStore struct {
	mu     sync.RWMutex
	order  []string
	byID   map[string]*tasks.Task
	issued map[string]struct{} // every id ever handed out, deleted or not
	newID  IDGenerator
}

// Option configures a MemoryTaskStore.
type Option func(*MemoryTaskStore)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *MemoryTaskStore) {
		s.newID = gen
	}
}

// NewMemoryTaskStore creates and initializes a new MemoryTaskStore.
func NewMemoryTaskStore(opts ...Option) *MemoryTaskStore {
	s := &MemoryTaskStore{
		byID:   make(map[string]*tasks.Task),
		issued: make(map[string]struct{}),
		newID:  newUUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// List returns copies of all tasks in insertion order.
func (s *MemoryTaskStore) List() []*tasks.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(tasks.Filter{})
}

// Search returns copies of the tasks matching filter, in insertion order.
func (s *MemoryTaskStore) Search(filter tasks.Filter) []*tasks.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(filter)
}

func (s *MemoryTaskStore) collect(filter tasks.Filter) []*tasks.Task {
	result := make([]*tasks.Task, 0, len(s.order))
	for _, id := range s.order {
		task := s.byID[id]
		if filter.Matches(task) {
			result = append(result, task.Clone())
		}
	}
	return result
}

// Get retrieves a copy of the task with the given ID.
func (s *MemoryTaskStore) Get(id string) (*tasks.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.byID[id]
	if !ok {
		return nil, errors.NewTaskNotFoundError(id)
	}
	return task.Clone(), nil
}

// Create stores a new OPEN task at the end of the collection.
// Identifier generation failures and collisions with any previously issued id
// leave the store unchanged.
func (s *MemoryTaskStore) Create(title, description string) (*tasks.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.NewValidationError("title must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generate task id: %w", err)
	}
	if id == "" {
		return nil, fmt.Errorf("generate task id: empty identifier")
	}
	if _, used := s.issued[id]; used {
		return nil, fmt.Errorf("generate task id: %s was already issued", id)
	}

	task := tasks.NewTask(id, title, description)
	s.issued[id] = struct{}{}
	s.byID[id] = task
	s.order = append(s.order, id)

	return task.Clone(), nil
}

// Delete removes the task permanently. Its id stays reserved.
func (s *MemoryTaskStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return errors.NewTaskNotFoundError(id)
	}

	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// UpdateStatus changes the stored task's status and returns the updated copy.
func (s *MemoryTaskStore) UpdateStatus(id string, status tasks.TaskStatus) (*tasks.Task, error) {
	if !status.IsValid() {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid task status %q", status), map[string]any{
			"status":  string(status),
			"allowed": tasks.Statuses,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.byID[id]
	if !ok {
		return nil, errors.NewTaskNotFoundError(id)
	}

	task.Status = status
	return task.Clone(), nil
}

// Len returns the number of tasks currently held.
func (s *MemoryTaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
