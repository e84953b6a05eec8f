// Package testdb connects integration tests to a real PostgreSQL database.
// Tests using it skip unless TASKTRACKER_TEST_DB_URL is set.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasktracker/internal/config"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/phrazzld/tasktracker/internal/platform/postgres"
)

// URLEnv names the environment variable holding the test database URL.
const URLEnv = "TASKTRACKER_TEST_DB_URL"

// Timeout bounds connection and migration work.
const Timeout = 10 * time.Second

// URL returns the configured test database URL, or "".
func URL() string {
	return os.Getenv(URLEnv)
}

// Open connects to the test database and applies migrations. The test is
// skipped when no URL is configured. The pool is closed on cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := URL()
	if dbURL == "" {
		t.Skipf("%s not set, skipping database test", URLEnv)
	}

	log, _ := logger.GetTestLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	db, err := postgres.Open(ctx, config.DatabaseConfig{URL: dbURL, MaxOpenConns: 4}, log)
	require.NoError(t, err, "connect to %s", postgres.MaskURL(dbURL))
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Migrate(ctx, db, log), "apply migrations")
	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so tests
// can share one database without seeing each other's rows.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("rollback failed: %v", err)
		}
	}()

	fn(t, tx)
}
