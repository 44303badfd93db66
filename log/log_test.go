package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// records decodes one JSON object per line of out.
func records(t *testing.T, out string) []map[string]any {
	t.Helper()

	var recs []map[string]any

	for line := range strings.Lines(out) {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("invalid JSON record %q: %v", line, err)
		}

		delete(rec, slog.TimeKey)
		recs = append(recs, rec)
	}

	return recs
}

func jsonLogger(buf *bytes.Buffer, opts ...Option) Logger {
	return Make(buf, append([]Option{
		WithFormat(FormatJSON),
		WithPretty(false),
		WithLevel(LevelTrace),
	}, opts...)...)
}

func TestLogger_LevelFiltering(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		level Level
		want  []string
	}{
		{LevelTrace, []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{LevelDebug, []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{LevelWarn, []string{"WARN", "ERROR"}},
		{LevelError + 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer

			l := jsonLogger(&buf, WithLevel(tt.level))
			l.TraceContext(ctx, "tag")
			l.DebugContext(ctx, "tag")
			l.InfoContext(ctx, "tag")
			l.WarnContext(ctx, "tag")
			l.ErrorContext(ctx, "tag")

			var got []string
			for _, rec := range records(t, buf.String()) {
				got = append(got, rec[slog.LevelKey].(string))
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("levels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	ctx := context.Background()

	l.TraceContext(ctx, "dropped")
	l.With(slog.String("source", "-")).Component("parser").ErrorContext(ctx, "dropped")

	if l.Enabled(ctx, LevelError) {
		t.Error("zero Logger reports Enabled")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Errorf("zero Logger: Level() = %v, Format() = %v", l.Level(), l.Format())
	}

	var buf bytes.Buffer

	l = l.Wrap(WithOutput(&buf), WithFormat(FormatJSON), WithPretty(false))
	l.InfoContext(ctx, "written")

	if !strings.Contains(buf.String(), "written") {
		t.Errorf("wrapped zero Logger wrote %q", buf.String())
	}
}

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer

	ctx := context.Background()
	base := jsonLogger(&buf)

	base.Component("repl").TraceContext(ctx, "repl command")
	base.Component("repl").Component("parser").TraceContext(ctx, "parse start",
		slog.Int("source_length", 8))
	base.InfoContext(ctx, "unattributed")

	want := []map[string]any{
		{"level": "TRACE", "msg": "repl command", "component": "repl"},
		{"level": "TRACE", "msg": "parse start", "component": "parser", "source_length": float64(8)},
		{"level": "INFO", "msg": "unattributed"},
	}

	if diff := cmp.Diff(want, records(t, buf.String())); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestLogger_WrapKeepsScope(t *testing.T) {
	var buf bytes.Buffer

	l := jsonLogger(&buf, WithLevel(LevelError)).
		Component("check").
		With(slog.String("source", "page.tmpl")).
		WithGroup("tag").
		With(slog.String("name", "FOR"))

	l = l.Wrap(WithLevel(LevelDebug))
	l.DebugContext(context.Background(), "check failed", slog.Int("line", 3))

	want := []map[string]any{{
		"level":  "DEBUG",
		"msg":    "check failed",
		"source": "page.tmpl",
		"tag": map[string]any{
			"name":      "FOR",
			"component": "check",
			"line":      float64(3),
		},
	}}

	if diff := cmp.Diff(want, records(t, buf.String())); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	if l.Level() != LevelDebug {
		t.Errorf("Level() = %v, want %v", l.Level(), LevelDebug)
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	jsonLogger(&buf, WithCaller(true)).InfoContext(context.Background(), "here")

	rec := records(t, buf.String())[0]

	src, ok := rec[slog.SourceKey].(map[string]any)
	if !ok {
		t.Fatalf("missing source in %v", rec)
	}

	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %q, want the calling test file", file)
	}

	buf.Reset()
	jsonLogger(&buf).InfoContext(context.Background(), "here")

	if _, ok := records(t, buf.String())[0][slog.SourceKey]; ok {
		t.Error("source recorded with caller disabled")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var (
		buf bytes.Buffer
		wg  sync.WaitGroup
	)

	l := Make(&buf, WithFormat(FormatText), WithPretty(true), WithLevel(LevelTrace))

	for i := range 8 {
		wg.Go(func() {
			c := l.Component("worker").With(slog.Int("id", i))
			for range 10 {
				c.TraceContext(context.Background(), "parse tag")
			}
		})
	}

	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 80 {
		t.Errorf("wrote %d lines, want 80", got)
	}
}

func BenchmarkLogger_Disabled(b *testing.B) {
	l := Make(&bytes.Buffer{}, WithLevel(LevelInfo)).Component("parser")
	ctx := context.Background()

	for b.Loop() {
		l.TraceContext(ctx, "parse tag", slog.String("tag", "FOR"))
	}
}

func BenchmarkLogger_JSON(b *testing.B) {
	var buf bytes.Buffer

	l := jsonLogger(&buf).Component("parser")
	ctx := context.Background()

	for b.Loop() {
		buf.Reset()
		l.TraceContext(ctx, "parse tag", slog.String("tag", "FOR"))
	}
}
