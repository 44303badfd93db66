package lang

import (
	"context"
	"io"
	"strconv"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

const htmlStyle = `body{font-family:sans-serif}` +
	`ul{list-style:none;border-left:1px solid #ccc;padding-left:1em}` +
	`.kind{font-weight:bold;margin-right:.5em}` +
	`.element{color:#555;margin-right:.5em}` +
	`code{white-space:pre-wrap}`

// FormatHTML writes a standalone HTML page showing the document tree as
// nested lists.
func (n *DocumentNode) FormatHTML(_ context.Context, w io.Writer) error {
	page := h.Doctype(
		h.HTML(
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.TitleEl(g.Text("smartscript document")),
				h.StyleEl(g.Raw(htmlStyle)),
			),
			h.Body(
				h.Ul(htmlNode(n)),
			),
		),
	)

	return page.Render(w)
}

func htmlNode(n Node) g.Node {
	switch n := n.(type) {
	case *DocumentNode:
		return h.Li(
			htmlKind("document"),
			h.Ul(htmlNodes(n.Children)),
		)

	case *TextNode:
		return h.Li(
			htmlKind("text"),
			h.Code(g.Text(strconv.Quote(n.Text))),
		)

	case *EchoNode:
		elems := make([]g.Node, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = htmlElement(e)
		}

		return h.Li(
			htmlKind("echo"),
			g.Group(elems),
		)

	case *ForLoopNode:
		header := []g.Node{
			htmlKind("for"),
			htmlElement(n.Variable),
			htmlElement(n.Start),
			htmlElement(n.End),
		}

		if n.Step != nil {
			header = append(header, htmlElement(n.Step))
		}

		return h.Li(
			g.Group(header),
			h.Ul(htmlNodes(n.Children)),
		)

	default:
		return nil
	}
}

func htmlNodes(nodes []Node) g.Node {
	items := make([]g.Node, len(nodes))
	for i, n := range nodes {
		items[i] = htmlNode(n)
	}

	return g.Group(items)
}

func htmlKind(kind string) g.Node {
	return h.Span(h.Class("kind"), g.Text(kind))
}

func htmlElement(e Element) g.Node {
	return h.Span(
		h.Class("element "+elementKind(e)),
		h.Code(g.Text(e.Text())),
	)
}
