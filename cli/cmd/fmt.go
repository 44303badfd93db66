package cmd

import (
	"context"
	"io"

	"github.com/ardnew/smartscript/lang"
)

// Fmt parses a template and writes it in the chosen format.
type Fmt struct {
	Text Text `cmd:"" default:"withargs" help:"Format as template text (default)."`
	JSON JSON `cmd:""                    help:"Format as JSON."`
	YAML YAML `cmd:""                    help:"Format as YAML."`
	AST  AST  `cmd:""                    help:"Format as an indented syntax tree."`
	HTML HTML `cmd:""                    help:"Format as an HTML page."`
}

// Text regenerates canonical template text.
type Text struct {
	Input Source `embed:""`
}

// Run executes the text command.
func (c *Text) Run(ctx context.Context) error {
	return c.Input.render(ctx, "text",
		func(doc *lang.DocumentNode, w io.Writer) error {
			return doc.Format(ctx, w)
		},
	)
}

// JSON writes the syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output; 0 for compact." short:"i"`

	Input Source `embed:""`
}

// Run executes the json command.
func (c *JSON) Run(ctx context.Context) error {
	return c.Input.render(ctx, "json",
		func(doc *lang.DocumentNode, w io.Writer) error {
			return doc.FormatJSON(ctx, w, c.Indent)
		},
	)
}

// YAML writes the syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output; 0 for flow style." short:"i"`

	Input Source `embed:""`
}

// Run executes the yaml command.
func (c *YAML) Run(ctx context.Context) error {
	return c.Input.render(ctx, "yaml",
		func(doc *lang.DocumentNode, w io.Writer) error {
			return doc.FormatYAML(ctx, w, c.Indent)
		},
	)
}

// AST writes an indented dump of the syntax tree.
type AST struct {
	Input Source `embed:""`
}

// Run executes the ast command.
func (c *AST) Run(ctx context.Context) error {
	return c.Input.render(ctx, "ast",
		func(doc *lang.DocumentNode, w io.Writer) error {
			return doc.Print(ctx, w)
		},
	)
}

// HTML writes an HTML page showing the syntax tree as nested lists.
type HTML struct {
	Input Source `embed:""`
}

// Run executes the html command.
func (c *HTML) Run(ctx context.Context) error {
	return c.Input.render(ctx, "html",
		func(doc *lang.DocumentNode, w io.Writer) error {
			return doc.FormatHTML(ctx, w)
		},
	)
}
