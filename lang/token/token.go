// Package token defines the lexical units produced by the smartscript lexer.
//
// A [Token] is an immutable value made of a [Kind] and the payload belonging
// to that kind. Tokens are comparable with ==, which is structural equality.
package token

import (
	"strconv"
)

// Kind classifies a [Token].
type Kind int

const (
	// EOF marks the end of input. It is produced exactly once per stream.
	EOF Kind = iota
	// TagOpen is the "{$" sequence that starts a tag.
	TagOpen
	// TagClose is the "$}" sequence that ends a tag.
	TagClose
	// Text is a run of literal document text with escapes resolved.
	Text
	// TagName is the keyword following "{$", or "=" for echo tags.
	TagName
	// Variable is an identifier inside a tag body.
	Variable
	// Function is an "@"-prefixed identifier inside a tag body.
	Function
	// String is a quoted string literal with escapes resolved.
	String
	// Integer is a numeral without a decimal point.
	Integer
	// Double is a numeral with a decimal point.
	Double
	// Operator is any other single character inside a tag body.
	Operator
)

// String returns a string representation of the token kind.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"

	case TagOpen:
		return "TagOpen"

	case TagClose:
		return "TagClose"

	case Text:
		return "Text"

	case TagName:
		return "TagName"

	case Variable:
		return "Variable"

	case Function:
		return "Function"

	case String:
		return "String"

	case Integer:
		return "Integer"

	case Double:
		return "Double"

	case Operator:
		return "Operator"

	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Token is a classified lexical unit.
// Only the payload field matching Kind is set.
type Token struct {
	kind  Kind
	text  string  // Text, TagName, Variable, Function, String
	int   int64   // Integer
	float float64 // Double
	op    rune    // Operator
}

// EndOfInput returns the EOF token.
func EndOfInput() Token { return Token{kind: EOF} }

// Open returns the TagOpen token.
func Open() Token { return Token{kind: TagOpen} }

// Close returns the TagClose token.
func Close() Token { return Token{kind: TagClose} }

// PlainText returns a Text token.
func PlainText(s string) Token { return Token{kind: Text, text: s} }

// Name returns a TagName token.
func Name(s string) Token { return Token{kind: TagName, text: s} }

// Var returns a Variable token.
func Var(s string) Token { return Token{kind: Variable, text: s} }

// Func returns a Function token. The name excludes the "@" prefix.
func Func(s string) Token { return Token{kind: Function, text: s} }

// Str returns a String token holding the unescaped literal.
func Str(s string) Token { return Token{kind: String, text: s} }

// Int returns an Integer token.
func Int(v int64) Token { return Token{kind: Integer, int: v} }

// Float returns a Double token.
func Float(v float64) Token { return Token{kind: Double, float: v} }

// Op returns an Operator token.
func Op(r rune) Token { return Token{kind: Operator, op: r} }

// Kind returns the token kind.
func (t Token) Kind() Kind { return t.kind }

// Is reports whether t has kind k.
func (t Token) Is(k Kind) bool { return t.kind == k }

// Text returns the string payload of Text, TagName, Variable, Function, and
// String tokens, and the empty string otherwise.
func (t Token) Text() string { return t.text }

// Int returns the payload of an Integer token.
func (t Token) Int() int64 { return t.int }

// Float returns the payload of a Double token.
func (t Token) Float() float64 { return t.float }

// Op returns the payload of an Operator token.
func (t Token) Op() rune { return t.op }

// Equal reports whether t and u have the same kind and payload.
func (t Token) Equal(u Token) bool { return t == u }

// String returns a diagnostic representation such as Variable("i") or
// Integer(10).
func (t Token) String() string {
	switch t.kind {
	case Text, TagName, Variable, Function, String:
		return t.kind.String() + "(" + strconv.Quote(t.text) + ")"

	case Integer:
		return t.kind.String() + "(" + strconv.FormatInt(t.int, 10) + ")"

	case Double:
		return t.kind.String() + "(" +
			strconv.FormatFloat(t.float, 'g', -1, 64) + ")"

	case Operator:
		return t.kind.String() + "(" + strconv.QuoteRune(t.op) + ")"

	default:
		return t.kind.String()
	}
}

// Position identifies a location in the source text.
type Position struct {
	Offset int // rune offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number in runes, starting at 1
}

// String returns the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}
