// Package main runs the tasktracker REST API: task CRUD backed by PostgreSQL
// plus login and register.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/tasktracker/internal/config"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/phrazzld/tasktracker/internal/platform/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("tasktracker server: %v", err)
	}
}

// run loads configuration, connects to the database, applies migrations and
// serves until ctx is cancelled.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"require_token", cfg.Auth.RequireToken)

	db, err := postgres.Open(ctx, cfg.Database, l)
	if err != nil {
		return err
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db, l); err != nil {
			_ = db.Close()
			return err
		}
	}

	app, err := newApplication(cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
