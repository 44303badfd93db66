package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"time"
)

// ComponentKey is the attribute key naming the part of the program that
// wrote a record. See [Logger.Component].
const ComponentKey = "component"

// Logger writes structured records through a [slog.Handler] built from its
// configuration. Loggers are immutable and safe for concurrent use.
//
// The zero Logger discards everything.
type Logger struct {
	handler   slog.Handler
	scope     []scope
	component string
	config    config
}

// scope derives a handler from its parent, such as by adding attributes.
type scope func(slog.Handler) slog.Handler

// Make creates a new [Logger] that writes to w.
// The default configuration is [DefaultFormat], [DefaultLevel],
// [DefaultTimeLayout], [DefaultPretty] and caller info disabled.
func Make(w io.Writer, opts ...Option) Logger {
	cfg := makeConfig(w, opts...)

	return Logger{handler: cfg.handler(), config: cfg}
}

// Wrap returns a copy of l reconfigured by opts. Attributes and groups added
// to l carry over to the new logger.
func (l Logger) Wrap(opts ...Option) Logger {
	cfg := l.config
	if l.handler == nil {
		cfg = makeConfig(nil)
	}

	cfg = apply(cfg, opts...)

	h := cfg.handler()
	for _, s := range l.scope {
		h = s(h)
	}

	return Logger{
		handler:   h,
		scope:     l.scope,
		component: l.component,
		config:    cfg,
	}
}

// derive returns a copy of l with s applied to its handler.
func (l Logger) derive(s scope) Logger {
	l.scope = append(slices.Clip(l.scope), s)
	l.handler = s(l.handler)

	return l
}

// With returns a copy of l that adds attrs to every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.handler == nil || len(attrs) == 0 {
		return l
	}

	return l.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

// WithGroup returns a copy of l that nests the attributes of later records
// under name.
func (l Logger) WithGroup(name string) Logger {
	if l.handler == nil || name == "" {
		return l
	}

	return l.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

// Component returns a copy of l whose records are attributed to the named
// component, such as "parser" or "repl", replacing any earlier component.
func (l Logger) Component(name string) Logger {
	l.component = name

	return l
}

// Enabled reports whether l writes records at level.
func (l Logger) Enabled(ctx context.Context, level Level) bool {
	return l.handler != nil && l.handler.Enabled(ctx, slog.Level(level))
}

// Level returns the minimum level of records written by l.
func (l Logger) Level() Level {
	if l.handler == nil {
		return DefaultLevel
	}

	return l.config.level
}

// Format returns the output format of l.
func (l Logger) Format() Format {
	if l.handler == nil {
		return DefaultFormat
	}

	return l.config.format
}

// TraceContext logs at [LevelTrace]. Parser internals log at this level.
func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelTrace, msg, attrs)
}

// DebugContext logs at [LevelDebug].
func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelDebug, msg, attrs)
}

// InfoContext logs at [LevelInfo].
func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelInfo, msg, attrs)
}

// WarnContext logs at [LevelWarn].
func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelWarn, msg, attrs)
}

// ErrorContext logs at [LevelError].
func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelError, msg, attrs)
}

// log must be called directly by an exported method or function so the
// recorded caller is the one outside this package.
func (l Logger) log(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	if !l.Enabled(ctx, level) {
		return
	}

	var pc uintptr

	if l.config.caller {
		var pcs [1]uintptr
		// runtime.Callers, log, exported wrapper
		runtime.Callers(3, pcs[:])
		pc = pcs[0]
	}

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pc)
	if l.component != "" {
		r.AddAttrs(slog.String(ComponentKey, l.component))
	}

	r.AddAttrs(attrs...)

	_ = l.handler.Handle(ctx, r)
}
