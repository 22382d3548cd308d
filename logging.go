package diskcache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// LogLevel represents different logging levels.
type LogLevel int

const (
	// LogLevelDebug enables debug level logging.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo enables info level logging.
	LogLevelInfo
	// LogLevelWarn enables warning level logging.
	LogLevelWarn
	// LogLevelError enables error level logging.
	LogLevelError
)

// LogConfig holds configuration for the cache logger.
type LogConfig struct {
	// Level sets the minimum log level.
	Level LogLevel
	// EnableCallerInfo includes file and line information in log records.
	EnableCallerInfo bool
}

// Operation represents a cache operation name attached to log records.
type Operation string

const (
	// OpSet represents a store operation.
	OpSet Operation = "set"
	// OpGet represents a retrieval operation.
	OpGet Operation = "get"
	// OpDelete represents a single-key removal.
	OpDelete Operation = "delete"
	// OpReset represents a bulk removal.
	OpReset Operation = "reset"
	// OpEvict represents a budget-driven removal.
	OpEvict Operation = "evict"
	// OpRehydrate represents the startup index rebuild.
	OpRehydrate Operation = "rehydrate"
)

// Logger provides structured logging for cache operations. A nil Logger and
// the zero value both discard all messages, so callers never guard calls.
type Logger struct {
	s *slog.Logger
}

// NewLogger creates a structured logger that writes text records to stderr.
func NewLogger(config LogConfig) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: config.EnableCallerInfo,
	})
	return &Logger{s: slog.New(handler)}
}

// NewSlogLogger wraps an existing slog.Logger so cache logs flow into the
// caller's logging setup.
func NewSlogLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		return NewNopLogger()
	}
	return &Logger{s: logger}
}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *Logger {
	return &Logger{}
}

func (lv LogLevel) slogLevel() slog.Level {
	switch lv {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs a debug level message with structured fields.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	if l == nil || l.s == nil {
		return
	}
	l.s.DebugContext(ctx, msg, args...)
}

// Info logs an info level message with structured fields.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	if l == nil || l.s == nil {
		return
	}
	l.s.InfoContext(ctx, msg, args...)
}

// Warn logs a warning level message with structured fields.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	if l == nil || l.s == nil {
		return
	}
	l.s.WarnContext(ctx, msg, args...)
}

// Error logs an error level message with structured fields.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	if l == nil || l.s == nil {
		return
	}
	l.s.ErrorContext(ctx, msg, args...)
}

// With returns a logger carrying additional context fields.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.s == nil {
		return l
	}
	return &Logger{s: l.s.With(args...)}
}

// WithOperation returns a logger tagged with the given operation.
func (l *Logger) WithOperation(op Operation) *Logger {
	return l.With("operation", string(op))
}

// WithKey returns a logger tagged with the cache key being operated on.
func (l *Logger) WithKey(key string) *Logger {
	return l.With("key", key)
}

// WithSize returns a logger tagged with a record size in bytes.
func (l *Logger) WithSize(size int64) *Logger {
	return l.With("size", size)
}

// ParseLogLevel parses a string representation of a log level.
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LogLevelDebug, nil
	case "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// logEviction records a single entry removal.
func logEviction(ctx context.Context, logger *Logger, key string, size int64, reason EvictReason) {
	logger.Info(ctx, "cache entry evicted",
		"operation", string(OpEvict),
		"key", key,
		"size", size,
		"reason", reason.String(),
	)
}
