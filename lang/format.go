package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// ToText renders n as template source.
//
// Parsing the rendered text of a parsed document yields a tree equal to the
// original by [Equal].
func ToText(n Node) string {
	var sb strings.Builder

	writeNode(&sb, n)

	return sb.String()
}

// Format writes the document in template syntax to the writer.
func (n *DocumentNode) Format(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, ToText(n))

	return err
}

// FormatJSON writes the document tree as JSON to the writer.
func (n *DocumentNode) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(n, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(n)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the document tree as YAML to the writer.
func (n *DocumentNode) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, n.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(yamlData)

	return err
}

func writeNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *DocumentNode:
		writeNodes(sb, n.Children)

	case *TextNode:
		writeEscapedText(sb, n.Text)

	case *EchoNode:
		sb.WriteString("{$=")

		for _, e := range n.Elements {
			sb.WriteByte(' ')
			sb.WriteString(e.Text())
		}

		sb.WriteString(" $}")

	case *ForLoopNode:
		sb.WriteString("{$ FOR ")
		sb.WriteString(n.Variable.Text())

		for _, e := range []Operand{n.Start, n.End, n.Step} {
			if e != nil {
				sb.WriteByte(' ')
				sb.WriteString(e.Text())
			}
		}

		sb.WriteString(" $}")
		writeNodes(sb, n.Children)
		sb.WriteString("{$END$}")
	}
}

func writeNodes(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		writeNode(sb, n)
	}
}

// writeEscapedText writes document text so that the lexer reads it back
// unchanged: backslashes are doubled and "{$" is written as "\{$".
func writeEscapedText(sb *strings.Builder, text string) {
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '\\':
			sb.WriteString(`\\`)

		case c == '{' && i+1 < len(text) && text[i+1] == '$':
			sb.WriteString(`\{`)

		default:
			sb.WriteByte(c)
		}
	}
}
