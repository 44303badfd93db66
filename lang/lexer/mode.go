package lexer

import "strconv"

// Mode selects the tokenization rules applied by [Lexer.Next].
//
// The mode is owned by the caller driving the lexer (the parser). The lexer
// never changes its own mode: whether the cursor is inside a tag is decided
// solely by whoever calls [Lexer.SetMode].
type Mode int

const (
	// ModeText lexes document text outside of any tag.
	ModeText Mode = iota
	// ModeTagName lexes the keyword immediately following "{$".
	ModeTagName
	// ModeTagBody lexes the arguments of a tag after its name.
	ModeTagBody
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"

	case ModeTagName:
		return "tag-name"

	case ModeTagBody:
		return "tag-body"

	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}
