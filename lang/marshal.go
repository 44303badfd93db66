package lang

import "encoding/json"

// MarshalJSON implements json.Marshaler for DocumentNode.
func (n *DocumentNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToMap())
}

// ToMap converts the document tree to a native Go map structure.
//
// Every node becomes a map with a "type" key ("document", "text", "echo", or
// "for"); containers list their nodes under "children".
func (n *DocumentNode) ToMap() map[string]any {
	return nodeMap(n)
}

func nodeMap(n Node) map[string]any {
	switch n := n.(type) {
	case *DocumentNode:
		return map[string]any{
			"type":     "document",
			"children": nodeMaps(n.Children),
		}

	case *TextNode:
		return map[string]any{
			"type": "text",
			"text": n.Text,
		}

	case *EchoNode:
		elems := make([]any, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = elementMap(e)
		}

		return map[string]any{
			"type":     "echo",
			"elements": elems,
		}

	case *ForLoopNode:
		m := map[string]any{
			"type":     "for",
			"variable": n.Variable.Name,
			"start":    elementMap(n.Start),
			"end":      elementMap(n.End),
			"children": nodeMaps(n.Children),
		}

		if n.Step != nil {
			m["step"] = elementMap(n.Step)
		}

		return m

	default:
		return nil
	}
}

func nodeMaps(nodes []Node) []any {
	result := make([]any, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, nodeMap(n))
	}

	return result
}

func elementMap(e Element) map[string]any {
	return map[string]any{
		"type":  elementKind(e),
		"value": elementValue(e),
	}
}

// elementValue returns the native Go value carried by e.
func elementValue(e Element) any {
	switch e := e.(type) {
	case Variable:
		return e.Name

	case FunctionRef:
		return e.Name

	case StringLiteral:
		return e.Value

	case IntegerConstant:
		return e.Value

	case DoubleConstant:
		return e.Value

	case Operator:
		return string(e.Symbol)

	default:
		return nil
	}
}
