package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasktracker/internal/domain"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// List returns every task in creation order.
	List(ctx context.Context) ([]domain.Task, error)

	// Create saves a new task and returns it with its store-assigned ID.
	// The ID on the input is ignored.
	Create(ctx context.Context, task domain.Task) (domain.Task, error)

	// GetByID retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist or the ID is malformed.
	GetByID(ctx context.Context, id string) (domain.Task, error)

	// Update overwrites every field of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task domain.Task) (domain.Task, error)

	// Delete removes a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id string) error

	// WithTx returns a TaskStore that runs its queries on the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
