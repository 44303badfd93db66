package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/smartscript/lang"
	"github.com/ardnew/smartscript/log"
	"github.com/ardnew/smartscript/pkg"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	varsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Check parses each template and reports whether it is well formed.
type Check struct {
	Vars bool `help:"List the variables referenced by each template." short:"V"`

	Sources []string `arg:"" default:"-" help:"Template files or '-' for stdin." name:"source"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	w := outputFrom(ctx)
	sources := uniqueSources(c.Sources)
	failed := 0

	for _, path := range sources {
		if err := c.check(ctx, w, path); err != nil {
			if errors.Is(err, ErrWriteOutput) {
				return err
			}

			failed++

			log.Component("check").DebugContext(ctx, "check failed",
				slog.String("source", path),
				slog.Any("error", err),
			)
		}
	}

	if failed > 0 {
		return ErrCheckFailed.With(
			slog.Int("failed", failed),
			slog.Int("total", len(sources)),
		)
	}

	return nil
}

// check reports on a single source, returning the parse or read error.
func (c *Check) check(ctx context.Context, w io.Writer, path string) error {
	r, err := Source{Source: path}.open()
	if err != nil {
		return c.report(w, path, err, "")
	}

	text, err := io.ReadAll(r)
	_ = r.Close()

	if err != nil {
		return c.report(w, path, ErrReadSource.Wrap(err), "")
	}

	doc, err := lang.ParseReader(ctx, strings.NewReader(string(text)),
		lang.WithLogger(log.Default()))
	if err != nil {
		return c.report(w, path, err, string(text))
	}

	line := path + ": " + okStyle.Render("ok") + "\n"

	if c.Vars {
		if vars := doc.Variables(); len(vars) > 0 {
			line += varsStyle.Render("  vars: "+strings.Join(vars, ", ")) + "\n"
		}
	}

	if _, err := io.WriteString(w, line); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// report writes a failure line, with a caret snippet when the error carries a
// position, and returns err.
func (c *Check) report(w io.Writer, path string, err error, text string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s\n", path, failStyle.Render(err.Error()))

	var e *pkg.Error
	if errors.As(err, &e) {
		b.WriteString(e.Snippet(text))
	}

	if _, werr := io.WriteString(w, b.String()); werr != nil {
		return ErrWriteOutput.Wrap(werr)
	}

	return err
}
