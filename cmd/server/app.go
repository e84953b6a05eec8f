package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktracker/internal/config"
	"github.com/phrazzld/tasktracker/internal/events"
	"github.com/phrazzld/tasktracker/internal/platform/postgres"
	"github.com/phrazzld/tasktracker/internal/service"
	"github.com/phrazzld/tasktracker/internal/service/auth"
)

// application holds the shared dependencies so they can be wired once and
// released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskService service.TaskService
	userService service.UserService
	jwtService  auth.JWTService
}

// newApplication builds the stores and services on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewAuditLogHandler(logger))

	taskStore := postgres.NewPostgresTaskStore(db, logger)
	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)

	app := &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		taskService: service.NewTaskService(taskStore, db, emitter, logger),
		userService: service.NewUserService(userStore, auth.NewBcryptVerifier(), db, logger),
		jwtService:  jwtService,
	}

	logger.Info("application initialized")
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
