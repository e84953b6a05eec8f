package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/phrazzld/tasktracker/internal/store"
)

const taskColumns = `id, title, description, date, priority, status, progress`

// PostgresTaskStore implements store.TaskStore on PostgreSQL.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a task store on a connection or transaction.
// If logger is nil, the default logger is used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at, id`)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("task", "list", "scan failed", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "row iteration failed", MapError(err))
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return domain.Task{}, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	id := uuid.New()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, task.Title, task.Description, task.Date,
		string(task.Priority), string(task.Status), task.Progress,
		now, now,
	)
	if err != nil {
		log.Error("failed to create task", slog.String("error", err.Error()))
		return domain.Task{}, store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	task.ID = id.String()
	log.Info("task created", slog.String("task_id", task.ID))
	return task, nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id string) (domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	taskID, err := uuid.Parse(id)
	if err != nil {
		return domain.Task{}, store.ErrTaskNotFound
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, taskID)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id))
			return domain.Task{}, store.ErrTaskNotFound
		}
		log.Error("failed to get task", slog.String("error", err.Error()), slog.String("task_id", id))
		return domain.Task{}, store.NewStoreError("task", "get", "query failed", MapError(err))
	}

	return task, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task domain.Task) (domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	taskID, err := uuid.Parse(task.ID)
	if err != nil {
		return domain.Task{}, store.ErrTaskNotFound
	}
	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()), slog.String("task_id", task.ID))
		return domain.Task{}, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, date = $4, priority = $5, status = $6, progress = $7, updated_at = $8
		WHERE id = $1`,
		taskID, task.Title, task.Description, task.Date,
		string(task.Priority), string(task.Status), task.Progress,
		time.Now().UTC(),
	)
	if err != nil {
		log.Error("failed to update task", slog.String("error", err.Error()), slog.String("task_id", task.ID))
		return domain.Task{}, store.NewStoreError("task", "update", "update failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return domain.Task{}, err
	}

	log.Info("task updated", slog.String("task_id", task.ID))
	return task, nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	taskID, err := uuid.Parse(id)
	if err != nil {
		return store.ErrTaskNotFound
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		log.Error("failed to delete task", slog.String("error", err.Error()), slog.String("task_id", id))
		return store.NewStoreError("task", "delete", "delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted", slog.String("task_id", id))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		task     domain.Task
		id       uuid.UUID
		priority string
		status   string
	)
	if err := row.Scan(&id, &task.Title, &task.Description, &task.Date, &priority, &status, &task.Progress); err != nil {
		return domain.Task{}, err
	}
	task.ID = id.String()
	task.Priority = domain.Priority(priority)
	task.Status = domain.Status(status)
	return task, nil
}
