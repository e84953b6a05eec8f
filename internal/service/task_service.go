package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/events"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/phrazzld/tasktracker/internal/store"
)

// TaskService is the task CRUD surface used by the REST handlers.
type TaskService interface {
	// ListTasks returns every task in creation order.
	ListTasks(ctx context.Context) ([]domain.Task, error)

	// CreateTask fills defaults for empty priority, status and progress, validates
	// and stores the task. The returned task carries the assigned ID.
	CreateTask(ctx context.Context, task domain.Task) (domain.Task, error)

	// UpdateTask applies the fields present in patch to an existing task.
	// An ID inside the patch is ignored.
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error)

	// DeleteTask removes a task. Returns store.ErrTaskNotFound if it does not exist.
	DeleteTask(ctx context.Context, id string) error
}

type taskServiceImpl struct {
	taskStore store.TaskStore
	db        *sql.DB
	emitter   events.EventEmitter
	logger    *slog.Logger
}

// NewTaskService creates a TaskService. A nil emitter disables change events.
func NewTaskService(
	taskStore store.TaskStore,
	db *sql.DB,
	emitter events.EventEmitter,
	logger *slog.Logger,
) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		taskStore: taskStore,
		db:        db,
		emitter:   emitter,
		logger:    logger.With("component", "task_service"),
	}
}

func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.taskStore.List(ctx)
	if err != nil {
		return nil, NewTaskServiceError("list", err)
	}
	return tasks, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task.ID = ""
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if task.Status == "" {
		task.Status = domain.StatusPending
	}
	if task.Progress == "" {
		task.Progress = domain.DefaultProgress
	}
	if err := task.Validate(); err != nil {
		log.Debug("rejected invalid task", "error", err)
		return domain.Task{}, err
	}

	created, err := s.taskStore.Create(ctx, task)
	if err != nil {
		return domain.Task{}, NewTaskServiceError("create", err)
	}

	s.emit(ctx, events.TaskCreated, created.ID, created)
	return created, nil
}

func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id string,
	patch domain.TaskPatch,
) (domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	patch.ID = nil
	if patch.IsEmpty() {
		return domain.Task{}, ErrEmptyPatch
	}
	if err := patch.Validate(); err != nil {
		log.Debug("rejected invalid task patch", "error", err, "task_id", id)
		return domain.Task{}, err
	}

	var updated domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		current, err := txStore.GetByID(ctx, id)
		if err != nil {
			return err
		}

		updated, err = txStore.Update(ctx, patch.ApplyTo(current))
		return err
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return domain.Task{}, err
		}
		return domain.Task{}, NewTaskServiceError("update", err)
	}

	s.emit(ctx, events.TaskUpdated, updated.ID, updated)
	return updated, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskStore.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		return NewTaskServiceError("delete", err)
	}

	s.emit(ctx, events.TaskDeleted, id, nil)
	return nil
}

// emit publishes a change event. Failures are logged and never undo the committed change.
func (s *taskServiceImpl) emit(ctx context.Context, eventType, taskID string, payload interface{}) {
	if s.emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewTaskChangeEvent(eventType, taskID, payload)
	if err != nil {
		log.Error("failed to build task event", "error", err, "event_type", eventType)
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("task event handler failed", "error", err, "event_type", eventType, "task_id", taskID)
	}
}
