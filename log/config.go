package log

import (
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode"
)

// FormatTime renders a record timestamp. An empty result drops the
// timestamp from the record.
type FormatTime func(time.Time) string

// Defaults applied by [Make] and [WithDefaults].
const (
	DefaultTimeLayout = time.RFC3339
	DefaultCaller     = false
	DefaultPretty     = true
)

// Option configures a [Logger].
type Option func(config) config

// config holds the configuration of a Logger. It is a plain value; a Logger
// never changes its config after building its handler.
type config struct {
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

func apply(c config, opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// makeConfig returns the default config writing to w, overridden by opts.
func makeConfig(w io.Writer, opts ...Option) config {
	return apply(config{}, append([]Option{WithDefaults(w)}, opts...)...)
}

// replaceAttr formats timestamps with the configured layout, dropping them
// when the layout is empty, and writes levels by name so that trace records
// read "TRACE" rather than "DEBUG-4".
func (c config) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			formatted := c.formatTime(t)
			if formatted == "" {
				return slog.Attr{}
			}

			a.Value = slog.StringValue(formatted)
		}

	case slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(level).String()))
		}
	}

	return a
}

// handler builds the slog.Handler described by c.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch {
	case c.pretty && c.format == FormatJSON:
		return newPrettyJSONHandler(c.output, opts)

	case c.pretty && c.format == FormatText:
		return newPrettyTextHandler(c.output, opts)

	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)

	case c.format == FormatText:
		return slog.NewTextHandler(c.output, opts)

	default:
		return slog.DiscardHandler
	}
}

// WithDefaults resets every setting to its default and writes to w.
// A nil w discards output.
func WithDefaults(w io.Writer) Option {
	return func(config) config {
		if w == nil {
			w = io.Discard
		}

		return config{
			output:     w,
			formatTime: makeFormatTimeFunc(DefaultTimeLayout),
			level:      DefaultLevel,
			format:     DefaultFormat,
			caller:     DefaultCaller,
			pretty:     DefaultPretty,
		}
	}
}

// WithOutput sets the writer receiving log records.
// A nil w discards output.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}

		c.output = w

		return c
	}
}

// WithLevel sets the minimum level of records written.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level

		return c
	}
}

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format

		return c
	}
}

// WithTimeLayout sets the layout of record timestamps.
//
// The layout is either a name from [time] such as "RFC3339Nano" or "Kitchen"
// (case and punctuation are ignored), or a layout passed verbatim to
// [time.Time.Format]. A blank layout or "none" drops timestamps.
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		c.formatTime = makeFormatTimeFunc(layout)

		return c
	}
}

// WithCaller controls whether records include the source location of the
// logging call.
func WithCaller(enable bool) Option {
	return func(c config) config {
		c.caller = enable

		return c
	}
}

// WithPretty controls whether records are colorized with lipgloss. Pretty
// text puts the component in brackets ahead of the message; pretty JSON is
// indented.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable

		return c
	}
}

// namedLayouts maps layout names, lowercased with punctuation removed, to
// their [time] layouts. The empty layout disables timestamps.
var namedLayouts = map[string]string{
	"none": "",

	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"datetime":    time.DateTime,
	"timeonly":    time.TimeOnly,
	"kitchen":     time.Kitchen,

	"stamp":      time.Stamp,
	"stampmilli": time.StampMilli,
	"stampmicro": time.StampMicro,
	"stampnano":  time.StampNano,
	"ms":         time.StampMilli,
	"us":         time.StampMicro,
	"ns":         time.StampNano,
}

// makeFormatTimeFunc resolves layout by name, falling back to layout itself.
// A layout with no letters or digits disables timestamps.
func makeFormatTimeFunc(layout string) FormatTime {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}

		return -1
	}, layout)

	if named, ok := namedLayouts[name]; ok {
		layout = named
	}

	if name == "" || layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
