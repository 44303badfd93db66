package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/ardnew/smartscript/pkg"
)

func TestPretty_WithAttrs_Retained(t *testing.T) {
	for _, format := range []Format{FormatText, FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf, WithFormat(format), WithPretty(true)).
				With(slog.String("source", "page.tmpl"))

			logger.InfoContext(context.Background(), "parsed", slog.Int("nodes", 3))

			out := buf.String()
			for _, want := range []string{"source", "page.tmpl", "nodes", "3", "parsed"} {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestPretty_Groups(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithPretty(true))
	logger = logger.WithGroup("parse")

	logger.InfoContext(context.Background(), "tag", slog.String("name", "FOR"))

	if out := buf.String(); !strings.Contains(out, "parse.name") {
		t.Errorf("expected group-qualified key, got:\n%s", out)
	}
}

func TestPretty_ErrorValue(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithPretty(true))

	err := pkg.NewError("missing END tag(s)").At(3, 7)
	logger.ErrorContext(context.Background(), "parse failed", slog.Any("error", err))

	out := buf.String()
	for _, want := range []string{"error.error", "missing END tag(s)", "error.line", "error.column"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPretty_NoTime(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(true), WithTimeLayout(""))
	logger.WarnContext(context.Background(), "untimed")

	if out := buf.String(); strings.Contains(out, "time") {
		t.Errorf("expected no time field, got:\n%s", out)
	}
}

func TestPretty_Component(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatText),
		WithPretty(true),
		WithLevel(LevelTrace),
		WithTimeLayout("none"))

	logger.Component("parser").TraceContext(context.Background(), "parse tag",
		slog.String("tag", "END"))

	out := buf.String()

	tag := strings.Index(out, "[parser]")
	msg := strings.Index(out, "parse tag")

	if tag < 0 || msg < tag {
		t.Errorf("expected [parser] ahead of the message, got:\n%s", out)
	}

	if strings.Contains(out, ComponentKey+"=") {
		t.Errorf("component written as key=value:\n%s", out)
	}

	buf.Reset()
	logger.TraceContext(context.Background(), "parse tag")

	if strings.Contains(buf.String(), "]") {
		t.Errorf("unexpected component tag:\n%s", buf.String())
	}
}
