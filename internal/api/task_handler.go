package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasktracker/internal/api/shared"
	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/phrazzld/tasktracker/internal/service"
)

// TaskHandler serves the task CRUD routes.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With("component", "task_handler"),
	}
}

// ListTasks handles GET /api/tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var task domain.Task
	if err := shared.DecodeJSON(w, r, &task); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	created, err := h.taskService.CreateTask(r.Context(), task)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task created", "task_id", created.ID)
	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// UpdateTask handles PUT /tasks/{id}. The body may carry any subset of fields.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch domain.TaskPatch
	if err := shared.DecodeJSON(w, r, &patch); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	updated, err := h.taskService.UpdateTask(r.Context(), id, patch)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
