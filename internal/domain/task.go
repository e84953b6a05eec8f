package domain

import (
	"errors"
	"slices"
	"strings"
)

// Priority is the urgency category of a task.
type Priority string

// Possible priority values
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Status is the lifecycle state of a task.
type Status string

// Possible status values
const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// DefaultProgress is the progress value of a freshly created draft.
const DefaultProgress = "0%"

// Common validation errors for Task
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle  = errors.New("task title cannot be empty")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrInvalidStatus   = errors.New("invalid task status")
)

// Priorities lists the priority values in display order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Statuses lists the status values in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Task is a single to-do record. ID is assigned by the task store on creation
// and is empty on drafts that have not been saved yet.
type Task struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	Progress    string   `json:"progress"`
}

// NewDraft returns an unsaved task carrying the default field values.
func NewDraft() Task {
	return Task{
		Priority: PriorityMedium,
		Status:   StatusPending,
		Progress: DefaultProgress,
	}
}

// Validate checks that the task can be submitted: the title is not blank and
// priority and status come from the fixed enumerations.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "cannot be empty", ErrEmptyTaskTitle)
	}
	if !t.Priority.IsValid() {
		return NewValidationError("priority", "must be one of High, Medium, Low", ErrInvalidPriority)
	}
	if !t.Status.IsValid() {
		return NewValidationError("status", "must be one of Pending, In Progress, Completed", ErrInvalidStatus)
	}
	return nil
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	return slices.Contains(Priorities, p)
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	return slices.Contains(Statuses, s)
}

// ParsePriority converts a string to a Priority. Matching is exact.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// ParseStatus converts a string to a Status. Matching is exact.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}
