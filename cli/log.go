package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/smartscript/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// Kong calls it while parsing --log-format, early enough to affect error
// messages reported during parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"json"    enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp format."`
	Caller     bool      `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

// start applies the fully parsed logger configuration, including the time
// layout and caller flags that have no early hook.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.Component("log").DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan performs an early pass over command-line arguments to apply logger
// flags before kong begins parsing, regardless of flag position. Boolean
// flags like --log-pretty never reach an UnmarshalText hook, so this is the
// only way they affect messages logged during parsing.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		name, value, assigned := strings.Cut(args[i], "=")

		// next returns the flag value, consuming the following argument if the
		// value was not assigned inline.
		next := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		// toggle parses an optional inline boolean, negated for --no- flags.
		toggle := func(negated bool) (bool, bool) {
			v := true
			if assigned {
				b, err := strconv.ParseBool(value)
				if err != nil {
					return false, false
				}

				v = b
			}

			return v != negated, true
		}

		switch name {
		case "--log-level":
			_ = f.Level.UnmarshalText([]byte(next()))

		case "--log-format":
			_ = f.Format.UnmarshalText([]byte(next()))

		case "--log-pretty", "--no-log-pretty":
			if v, ok := toggle(strings.HasPrefix(name, "--no-")); ok {
				f.Pretty = v
				log.Config(log.WithPretty(v))
			}

		case "--log-caller", "--no-log-caller":
			if v, ok := toggle(strings.HasPrefix(name, "--no-")); ok {
				f.Caller = v
				log.Config(log.WithCaller(v))
			}
		}
	}
}
