package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Task change event types.
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

// TaskChangeEvent records a committed change to a task.
type TaskChangeEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of TaskCreated, TaskUpdated or TaskDeleted
	Type string `json:"type"`

	TaskID string `json:"task_id"`

	// Payload is the task as stored after the change; empty for deletes
	Payload json.RawMessage `json:"payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *TaskChangeEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewTaskChangeEvent creates an event for taskID. A nil payload is left empty.
func NewTaskChangeEvent(eventType, taskID string, payload interface{}) (*TaskChangeEvent, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return &TaskChangeEvent{
		ID:        uuid.New(),
		Type:      eventType,
		TaskID:    taskID,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler is implemented by components that react to task changes.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *TaskChangeEvent) error
}

// HandlerFunc adapts an ordinary function to EventHandler.
type HandlerFunc func(ctx context.Context, event *TaskChangeEvent) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *TaskChangeEvent) error {
	return f(ctx, event)
}

// EventEmitter lets services publish events without knowing the handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *TaskChangeEvent) error
}
