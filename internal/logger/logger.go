// Package logger provides structured logging for tablewash.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	defaultLogger *slog.Logger
	mu            sync.RWMutex
)

func init() {
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Options configures the logger.
type Options struct {
	Debug  bool         // Enable debug level logging
	Quiet  bool         // Only show errors
	JSON   bool         // Output as JSON
	Output io.Writer    // Output destination (default: stderr)
	Logger *slog.Logger // Custom logger (overrides all other options)
}

// Init replaces the process-wide logger according to opts.
func Init(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	if opts.Logger != nil {
		defaultLogger = opts.Logger
		return
	}

	level := slog.LevelInfo
	switch {
	case opts.Quiet:
		level = slog.LevelError
	case opts.Debug:
		level = slog.LevelDebug
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if opts.JSON {
		defaultLogger = slog.New(slog.NewJSONHandler(output, handlerOpts))
		return
	}
	defaultLogger = slog.New(slog.NewTextHandler(output, handlerOpts))
}

// SetLogger installs a caller-owned slog.Logger, for embedding tablewash in
// an application with its own logging setup.
func SetLogger(l *slog.Logger) {
	Init(Options{Logger: l})
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Debug logs a debug message.
func Debug(msg string, args ...any) { current().Debug(msg, args...) }

// Info logs an info message.
func Info(msg string, args ...any) { current().Info(msg, args...) }

// Warn logs a warning message.
func Warn(msg string, args ...any) { current().Warn(msg, args...) }

// Error logs an error message.
func Error(msg string, args ...any) { current().Error(msg, args...) }

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger { return current().With(args...) }

// ForPass returns a logger tagged with the sanitizer pass name.
func ForPass(name string) *slog.Logger { return current().With("pass", name) }

// InfoContext logs an info message with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	current().InfoContext(ctx, msg, args...)
}

// ErrorContext logs an error message with context.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	current().ErrorContext(ctx, msg, args...)
}
