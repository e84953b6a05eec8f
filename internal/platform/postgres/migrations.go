package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the table goose uses to track applied migrations.
const MigrationTableName = "schema_migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// slogGooseLogger adapts the goose logger interface to slog.
// Fatalf does not exit; the error is returned to the caller instead.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	log := logger.With(slog.String("component", "migrations"))

	goose.SetBaseFS(embeddedMigrations)
	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetTableName(MigrationTableName)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		log.Error("migration failed", slog.String("error", err.Error()))
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	log.Info("migrations applied", slog.Int64("version", version))
	return nil
}
