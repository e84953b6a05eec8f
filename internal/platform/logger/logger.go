package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/tasktracker/internal/config"
)

// Setup initializes the server's logging system from the provided configuration.
// It creates a structured JSON logger writing to stdout at the configured level
// and sets it as the default logger for the application.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	level, ok := ParseLevel(cfg.LogLevel)
	if !ok {
		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", cfg.LogLevel,
			"default_level", "info")
	}

	logger := New(os.Stdout, level)
	slog.SetDefault(logger)

	return logger, nil
}

// New returns a JSON logger writing to w at the given level.
// The CLI uses it with stderr so table output on stdout stays clean.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel converts a configured level name (case-insensitive) into a slog.Level.
// Unknown names yield slog.LevelInfo and false.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
