package log

import (
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// Level represents the severity of a log message.
type Level slog.Level

const levelTraceMask = -8

const (
	LevelTrace Level = Level(levelTraceMask)  // trace
	LevelDebug Level = Level(slog.LevelDebug) // debug
	LevelInfo  Level = Level(slog.LevelInfo)  // info
	LevelWarn  Level = Level(slog.LevelWarn)  // warn
	LevelError Level = Level(slog.LevelError) // error
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

// levels lists the named levels in increasing severity.
var levels = []Level{
	LevelTrace,
	LevelDebug,
	LevelInfo,
	LevelWarn,
	LevelError,
}

// Levels returns an iterator over all defined log levels.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, level := range levels {
			if !yield(level.String()) {
				return
			}
		}
	}
}

// String returns the lowercase name of the level. Levels between the named
// ones are written relative to the nearest lower named level, as in "info+2".
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"

	case LevelDebug:
		return "debug"

	case LevelInfo:
		return "info"

	case LevelWarn:
		return "warn"

	case LevelError:
		return "error"
	}

	if l < LevelTrace {
		return strings.ToLower(slog.Level(l).String())
	}

	base := LevelTrace
	for _, named := range levels {
		if named <= l {
			base = named
		}
	}

	return base.String() + "+" + strconv.Itoa(int(l-base))
}

// ParseLevel parses a string representation of a log level.
// Valid level strings are "TRACE", "DEBUG", "INFO", "WARN", and "ERROR",
// optionally followed by a "+" or "-" and an integer offset.
// See [slog.Level.UnmarshalText] for details.
func ParseLevel(s string) Level {
	// Check for "trace" explicitly since slog.Level.UnmarshalText doesn't
	// recognize it
	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}

	l := new(slog.Level)

	err := l.UnmarshalText([]byte(s))
	if err != nil {
		return DefaultLevel
	}

	return Level(*l)
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatJSON

// Formats returns an iterator over all defined log formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, format := range []Format{
			FormatJSON,
			FormatText,
		} {
			if !yield(format.String()) {
				return
			}
		}
	}
}

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"

	case FormatJSON:
		return "json"

	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}

// ParseFormat parses a string representation of a log format.
// Valid format strings are "json" and "text".
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return DefaultFormat
	}
}
