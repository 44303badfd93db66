package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/smartscript/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"))

	logger.InfoContext(context.Background(), "template parsed",
		slog.String("source", "page.tmpl"))

	// Output:
	// level=INFO msg="template parsed" source=page.tmpl
}

func ExampleLogger_Component() {
	ctx := context.Background()

	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"))

	repl := logger.Component("repl")
	repl.TraceContext(ctx, "repl command", slog.String("command", "vars"))

	// The parser receives the repl logger and attributes its own records.
	repl.Component("parser").TraceContext(ctx, "parse tag", slog.String("tag", "FOR"))

	// Output:
	// level=TRACE msg="repl command" component=repl command=vars
	// level=TRACE msg="parse tag" component=parser tag=FOR
}

func ExampleLogger_Wrap() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none")).
		With(slog.String("source", "index.tmpl"))

	logger.DebugContext(context.Background(), "dropped")

	logger = logger.Wrap(log.WithLevel(log.LevelDebug))
	logger.DebugContext(context.Background(), "check failed", slog.Int("line", 3))

	// Output:
	// level=DEBUG msg="check failed" source=index.tmpl line=3
}
