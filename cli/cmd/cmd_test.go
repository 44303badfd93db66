package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/smartscript/lang"
)

// writeTemplate writes text to a new file in a temporary directory.
func writeTemplate(t *testing.T, name, text string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// run executes fn with its output captured.
func run(t *testing.T, fn func(context.Context) error) (string, error) {
	t.Helper()

	var out bytes.Buffer

	err := fn(WithOutput(context.Background(), &out))

	return out.String(), err
}

func TestUniqueSources(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.tmpl")
	b := filepath.Join(dir, "b.tmpl")
	link := filepath.Join(dir, "link.tmpl")

	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	missing := filepath.Join(dir, "missing.tmpl")

	got := uniqueSources([]string{"-", a, link, b, "-", missing, a})
	want := []string{a, b, missing, "-"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("uniqueSources() mismatch (-want +got):\n%s", diff)
	}
}

func TestSource_ParseMissingFile(t *testing.T) {
	src := Source{Source: filepath.Join(t.TempDir(), "missing.tmpl")}

	_, err := src.parse(context.Background())
	if !errors.Is(err, ErrReadSource) {
		t.Errorf("parse() error = %v, want ErrReadSource", err)
	}
}

func TestSource_ParseAnnotatesErrors(t *testing.T) {
	path := writeTemplate(t, "bad.tmpl", "{$ FOR $}")

	_, err := Source{Source: path}.parse(context.Background())
	if !errors.Is(err, lang.ErrForVariable) {
		t.Fatalf("parse() error = %v, want ErrForVariable", err)
	}

	var pos interface{ Position() (int, int) }
	if !errors.As(err, &pos) {
		t.Fatal("annotated error lost its position")
	}

	if line, col := pos.Position(); line != 1 || col != 8 {
		t.Errorf("Position() = %d:%d, want 1:8", line, col)
	}
}

func TestOutputFrom_Default(t *testing.T) {
	if outputFrom(context.Background()) != os.Stdout {
		t.Error("outputFrom() without WithOutput is not os.Stdout")
	}
}

func TestKongContextFrom_Missing(t *testing.T) {
	if kongContextFrom(context.Background()) != nil {
		t.Error("kongContextFrom() without WithContext is not nil")
	}
}
