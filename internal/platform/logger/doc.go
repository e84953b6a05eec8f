// Package logger provides structured logging for the server and the task client.
//
// It builds on the standard library log/slog package: JSON output, a level taken
// from configuration, and helpers to carry a request-scoped logger in a context.
package logger
