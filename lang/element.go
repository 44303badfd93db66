package lang

import (
	"strconv"
	"strings"
)

// Element is a classified argument appearing inside a tag body.
//
// The set of elements is closed: [Variable], [FunctionRef], [StringLiteral],
// [IntegerConstant], [DoubleConstant], and [Operator].
type Element interface {
	// Text returns the element in template source form.
	Text() string

	element()
}

// Operand is an [Element] that may appear as a FOR loop bound or step:
// [Variable], [StringLiteral], [IntegerConstant], or [DoubleConstant].
type Operand interface {
	Element

	operand()
}

// Variable references a named runtime value.
type Variable struct {
	Name string
}

// FunctionRef references a named function, written "@name" in source.
type FunctionRef struct {
	Name string
}

// StringLiteral is a quoted string. Value holds the unescaped contents.
type StringLiteral struct {
	Value string
}

// IntegerConstant is a numeral without a decimal point.
type IntegerConstant struct {
	Value int64
}

// DoubleConstant is a numeral with a decimal point.
type DoubleConstant struct {
	Value float64
}

// Operator is a single-character operator symbol.
type Operator struct {
	Symbol rune
}

// Text returns the variable name.
func (v Variable) Text() string { return v.Name }

// Text returns the function name prefixed with "@".
func (f FunctionRef) Text() string { return "@" + f.Name }

// Text returns the string quoted and escaped.
func (s StringLiteral) Text() string { return quote(s.Value) }

// Text returns the integer in decimal.
func (i IntegerConstant) Text() string { return strconv.FormatInt(i.Value, 10) }

// Text returns the double in decimal notation, always with a decimal point.
func (d DoubleConstant) Text() string { return formatDouble(d.Value) }

// Text returns the operator symbol.
func (o Operator) Text() string { return string(o.Symbol) }

func (Variable) element()        {}
func (FunctionRef) element()     {}
func (StringLiteral) element()   {}
func (IntegerConstant) element() {}
func (DoubleConstant) element()  {}
func (Operator) element()        {}

func (Variable) operand()        {}
func (StringLiteral) operand()   {}
func (IntegerConstant) operand() {}
func (DoubleConstant) operand()  {}

// echoOperators are the operator symbols accepted inside an echo tag.
const echoOperators = "+-*/^"

func isEchoOperator(r rune) bool { return strings.ContainsRune(echoOperators, r) }

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// quote renders s as a string literal the lexer reads back as s.
func quote(s string) string { return `"` + stringEscaper.Replace(s) + `"` }

// formatDouble renders v so the lexer reads it back as a double.
func formatDouble(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}

// elementKind returns the name of the element's type for encodings.
func elementKind(e Element) string {
	switch e.(type) {
	case Variable:
		return "variable"

	case FunctionRef:
		return "function"

	case StringLiteral:
		return "string"

	case IntegerConstant:
		return "integer"

	case DoubleConstant:
		return "double"

	case Operator:
		return "operator"

	default:
		return "unknown"
	}
}
