package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tasktracker/internal/platform/logger"
)

// AuditLogHandler writes one structured log line per task change.
type AuditLogHandler struct {
	logger *slog.Logger
}

// NewAuditLogHandler returns a handler logging through logger, or the default logger when nil.
func NewAuditLogHandler(l *slog.Logger) *AuditLogHandler {
	if l == nil {
		l = slog.Default()
	}
	return &AuditLogHandler{logger: l.With("component", "task_audit")}
}

// HandleEvent implements EventHandler.
func (h *AuditLogHandler) HandleEvent(ctx context.Context, event *TaskChangeEvent) error {
	logger.FromContextOrDefault(ctx, h.logger).Info("task changed",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.String("task_id", event.TaskID),
		slog.Time("at", event.CreatedAt))
	return nil
}
