package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/phrazzld/tasktracker/internal/config"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := logger.ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSetupSetsDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	l, err := logger.Setup(config.ServerConfig{LogLevel: "error"})

	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Same(t, l, slog.Default())
	assert.False(t, l.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, l.Enabled(context.Background(), slog.LevelError))
}

func TestSetupInvalidLevelFallsBackToInfo(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	l, err := logger.Setup(config.ServerConfig{LogLevel: "chatty"})

	require.NoError(t, err)
	assert.True(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, l.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewWritesJSON(t *testing.T) {
	l, buf := logger.GetTestLogger(t)

	l.Info("task saved", "task_id", "abc")

	entries := buf.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "task saved", entries[0]["msg"])
	assert.Equal(t, "abc", entries[0]["task_id"])
	assert.Equal(t, "INFO", entries[0]["level"])
}

func TestContextLogger(t *testing.T) {
	scoped, buf := logger.GetTestLogger(t)
	fallback, fallbackBuf := logger.GetTestLogger(t)

	ctx := logger.WithLogger(context.Background(), scoped)

	logger.FromContextOrDefault(ctx, fallback).Info("from context")
	logger.FromContextOrDefault(context.Background(), fallback).Info("from fallback")

	assert.Contains(t, buf.String(), "from context")
	assert.NotContains(t, buf.String(), "from fallback")
	assert.Contains(t, fallbackBuf.String(), "from fallback")

	assert.Same(t, scoped, logger.FromContext(ctx))
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
	assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))
}
