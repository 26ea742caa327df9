// Package logging provides structured logging for mp4batch on top of
// log/slog. The pipeline logs through one process-global logger; components
// tag their records with a prefix attribute.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Logger wraps slog.Logger so callers stay decoupled from the handler
// configuration.
type Logger struct {
	*slog.Logger
}

// New creates a logger writing text records at the given level. A nil
// writer defaults to stderr.
func New(level slog.Level, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithPrefix returns a logger whose records carry the given component tag.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{Logger: l.Logger.With("component", prefix)}
}

var (
	globalLogger     *Logger
	globalLoggerOnce sync.Once
)

// Global returns the global logger, creating an info-level stderr logger
// on first use.
func Global() *Logger {
	globalLoggerOnce.Do(func() {
		if globalLogger == nil {
			globalLogger = New(slog.LevelInfo, os.Stderr)
		}
	})
	return globalLogger
}

// SetGlobal replaces the global logger.
func SetGlobal(logger *Logger) {
	globalLogger = logger
}

// Init configures the global logger with the given level and output.
func Init(level slog.Level, w io.Writer) {
	SetGlobal(New(level, w))
}

// Debug logs a debug message to the global logger.
func Debug(msg string, args ...any) {
	Global().Debug(msg, args...)
}

// Info logs an informational message to the global logger.
func Info(msg string, args ...any) {
	Global().Info(msg, args...)
}

// Warn logs a warning message to the global logger.
func Warn(msg string, args ...any) {
	Global().Warn(msg, args...)
}

// Error logs an error message to the global logger.
func Error(msg string, args ...any) {
	Global().Error(msg, args...)
}
