package lang

import (
	"iter"
	"slices"
)

// Node is a node of the abstract syntax tree produced by [Parse].
//
// The set of nodes is closed: [*DocumentNode], [*TextNode], [*EchoNode], and
// [*ForLoopNode]. A tree returned by Parse is owned by the caller and is
// never modified by this package afterwards.
type Node interface {
	// String returns the node rendered as template source.
	String() string

	node()
}

// DocumentNode is the root of every parsed template.
type DocumentNode struct {
	Children []Node
}

// TextNode is a run of literal document text with escapes resolved.
type TextNode struct {
	Text string
}

// EchoNode substitutes the value of its elements: {$= ... $}.
// Elements is never empty in a parsed tree.
type EchoNode struct {
	Elements []Element
}

// ForLoopNode repeats its children for each value of Variable from Start to
// End, advancing by Step: {$ FOR v start end [step] $} ... {$END$}.
// Step is nil when the tag omits it.
type ForLoopNode struct {
	Variable Variable
	Start    Operand
	End      Operand
	Step     Operand
	Children []Node
}

func (*DocumentNode) node() {}
func (*TextNode) node()     {}
func (*EchoNode) node()     {}
func (*ForLoopNode) node()  {}

func (n *DocumentNode) String() string { return ToText(n) }
func (n *TextNode) String() string     { return ToText(n) }
func (n *EchoNode) String() string     { return ToText(n) }
func (n *ForLoopNode) String() string  { return ToText(n) }

// container is a node that accepts children while it is on the parser's
// container stack.
type container interface {
	Node

	appendChild(child Node)
}

func (n *DocumentNode) appendChild(child Node) {
	n.Children = append(n.Children, child)
}

func (n *ForLoopNode) appendChild(child Node) {
	n.Children = append(n.Children, child)
}

// children returns the child nodes of n, or nil for leaf nodes.
func children(n Node) []Node {
	switch n := n.(type) {
	case *DocumentNode:
		return n.Children

	case *ForLoopNode:
		return n.Children

	default:
		return nil
	}
}

// All returns an iterator over every node of the tree in depth-first
// pre-order, starting with the document itself.
func (n *DocumentNode) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(n, yield)
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if !yield(n) {
		return false
	}

	for _, child := range children(n) {
		if !walk(child, yield) {
			return false
		}
	}

	return true
}

// Variables returns the sorted, unique names of all variables referenced by
// echo tags and FOR loop headers.
func (n *DocumentNode) Variables() []string {
	seen := make(map[string]struct{})

	add := func(e Element) {
		if v, ok := e.(Variable); ok {
			seen[v.Name] = struct{}{}
		}
	}

	for node := range n.All() {
		switch node := node.(type) {
		case *EchoNode:
			for _, e := range node.Elements {
				add(e)
			}

		case *ForLoopNode:
			add(node.Variable)

			for _, e := range []Operand{node.Start, node.End, node.Step} {
				if e != nil {
					add(e)
				}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Clone returns a deep copy of the tree rooted at n.
func (n *DocumentNode) Clone() *DocumentNode {
	if n == nil {
		return nil
	}

	return &DocumentNode{Children: cloneNodes(n.Children)}
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}

	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = cloneNode(n)
	}

	return out
}

func cloneNode(n Node) Node {
	switch n := n.(type) {
	case *DocumentNode:
		return n.Clone()

	case *TextNode:
		return &TextNode{Text: n.Text}

	case *EchoNode:
		// Elements are immutable values.
		return &EchoNode{Elements: slices.Clone(n.Elements)}

	case *ForLoopNode:
		return &ForLoopNode{
			Variable: n.Variable,
			Start:    n.Start,
			End:      n.End,
			Step:     n.Step,
			Children: cloneNodes(n.Children),
		}

	default:
		return n
	}
}

// Equal reports whether a and b are structurally equal trees.
// Empty and nil child lists are equal.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case *DocumentNode:
		b, ok := b.(*DocumentNode)

		return ok && equalNodes(a.Children, b.Children)

	case *TextNode:
		b, ok := b.(*TextNode)

		return ok && a.Text == b.Text

	case *EchoNode:
		b, ok := b.(*EchoNode)

		return ok && slices.EqualFunc(a.Elements, b.Elements, equalElement)

	case *ForLoopNode:
		b, ok := b.(*ForLoopNode)

		return ok &&
			a.Variable == b.Variable &&
			equalElement(a.Start, b.Start) &&
			equalElement(a.End, b.End) &&
			equalElement(a.Step, b.Step) &&
			equalNodes(a.Children, b.Children)

	default:
		return a == nil && b == nil
	}
}

func equalNodes(a, b []Node) bool {
	return slices.EqualFunc(a, b, Equal)
}

// equalElement compares elements by value. Every element type is a
// comparable value type, so interface equality is structural.
func equalElement(a, b Element) bool { return a == b }
