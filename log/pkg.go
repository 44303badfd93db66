package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// defaultLog backs the package-level functions. It is replaced, never
// mutated, so loaded loggers stay valid while [Config] runs.
var defaultLog atomic.Pointer[Logger]

func init() {
	l := Make(os.Stderr)
	defaultLog.Store(&l)
}

// Config reconfigures the default logger with opts.
func Config(opts ...Option) {
	l := Default().Wrap(opts...)
	defaultLog.Store(&l)
}

// Default returns the default logger.
func Default() Logger { return *defaultLog.Load() }

// Component returns the default logger attributed to the named component.
func Component(name string) Logger { return Default().Component(name) }

// TraceContext logs at [LevelTrace] with the default logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelTrace, msg, attrs)
}

// DebugContext logs at [LevelDebug] with the default logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelDebug, msg, attrs)
}

// InfoContext logs at [LevelInfo] with the default logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelInfo, msg, attrs)
}

// WarnContext logs at [LevelWarn] with the default logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelWarn, msg, attrs)
}

// ErrorContext logs at [LevelError] with the default logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelError, msg, attrs)
}
