package lang

import (
	"context"
	"io"
	"strconv"
	"strings"
)

// Print writes an indented tree representation of the document.
func (n *DocumentNode) Print(ctx context.Context, w io.Writer) error {
	return n.PrintIndent(ctx, w, 0)
}

// PrintIndent writes an indented tree representation of the document,
// starting at the given indentation level.
func (n *DocumentNode) PrintIndent(_ context.Context, w io.Writer, indent int) error {
	p := &printer{w: w}
	p.node(n, indent)

	return p.err
}

// printer writes one item per line and keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) put(indent int, item ...string) {
	if p.err != nil {
		return
	}

	_, p.err = io.WriteString(p.w,
		strings.Repeat("  ", indent)+strings.Join(item, ": ")+"\n")
}

func (p *printer) node(n Node, indent int) {
	switch n := n.(type) {
	case *DocumentNode:
		p.put(indent, "Document")
		p.nodes(n.Children, indent+1)

	case *TextNode:
		p.put(indent, "Text", strconv.Quote(n.Text))

	case *EchoNode:
		p.put(indent, "Echo")

		for _, e := range n.Elements {
			p.element(e, indent+1)
		}

	case *ForLoopNode:
		p.put(indent, "For", n.Variable.Name)
		p.element(n.Start, indent+1, "Start")
		p.element(n.End, indent+1, "End")

		if n.Step != nil {
			p.element(n.Step, indent+1, "Step")
		}

		if len(n.Children) == 0 {
			p.put(indent+1, "Body", "(empty)")

			return
		}

		p.put(indent+1, "Body")
		p.nodes(n.Children, indent+2)
	}
}

func (p *printer) nodes(nodes []Node, indent int) {
	for _, n := range nodes {
		p.node(n, indent)
	}
}

func (p *printer) element(e Element, indent int, label ...string) {
	var value string

	switch e := e.(type) {
	case StringLiteral:
		value = strconv.Quote(e.Value)

	case FunctionRef:
		value = e.Name

	default:
		value = e.Text()
	}

	kind := elementKind(e)
	kind = strings.ToUpper(kind[:1]) + kind[1:]

	p.put(indent, append(label, kind, value)...)
}
