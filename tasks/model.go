package tasks

import (
	"fmt"
	"strings"
)

// DescriptionSuffix is appended to every description supplied at creation.
const DescriptionSuffix = " and this is added."

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusOpen       TaskStatus = "OPEN"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []TaskStatus{StatusOpen, StatusInProgress, StatusDone}

func (s TaskStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses. Matching is case-sensitive.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// ParseStatus converts raw input into a TaskStatus, rejecting anything outside the enum.
func ParseStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown task status %q: must be one of %s", raw, statusList())
	}
	return status, nil
}

func statusList() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
}

// NewTask builds an OPEN task with the description suffix applied.
func NewTask(id, title, description string) *Task {
	return &Task{
		ID:          id,
		Title:       title,
		Description: description + DescriptionSuffix,
		Status:      StatusOpen,
	}
}

// Clone returns an independent copy of the task.
func (t *Task) Clone() *Task {
	copied := *t
	return &copied
}

// Filter narrows a search. Zero-valued fields are not applied.
type Filter struct {
	Status TaskStatus `json:"status,omitempty"`
	// Search is a case-sensitive literal fragment matched against title or description.
	// An empty fragment applies no text filter.
	Search string `json:"search,omitempty"`
}

// IsEmpty reports whether the filter would retain every task.
func (f Filter) IsEmpty() bool {
	return f.Status == "" && f.Search == ""
}

// Matches reports whether t satisfies both the status and text conditions.
func (f Filter) Matches(t *Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Search != "" && !strings.Contains(t.Title, f.Search) && !strings.Contains(t.Description, f.Search) {
		return false
	}
	return true
}
