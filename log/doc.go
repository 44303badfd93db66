// Package log provides leveled, structured logging based on [log/slog].
//
// A [Logger] is built once with functional options and never changes;
// [Logger.With], [Logger.WithGroup], [Logger.Component] and [Logger.Wrap]
// derive new loggers. The zero Logger discards everything, so library code
// such as the template parser accepts a Logger without requiring callers to
// configure one.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("RFC3339Nano"))
//
//	doc, err := lang.Parse(ctx, src, lang.WithLogger(logger))
//
// # Components
//
// Records carry a "component" attribute naming the part of the program that
// wrote them, such as "parser" for the template parser. A component replaces
// the one it was derived from, so a logger handed from the repl to the parser
// does not report both.
// Pretty text output writes the component in brackets ahead of the message.
//
// # Default Logger
//
// The package-level functions write through a default logger that the
// command line reconfigures with [Config] from its flags and config files.
//
// # Levels and Formats
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn] and [LevelError]. Parser internals log at [LevelTrace];
// command diagnostics at [LevelDebug].
//
// Output is [FormatJSON] (default) or [FormatText]. Either may be colorized
// with lipgloss by [WithPretty].
package log
