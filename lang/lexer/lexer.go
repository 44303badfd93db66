// Package lexer tokenizes smartscript template text.
//
// The [Lexer] is pull-based: each call to [Lexer.Next] produces exactly one
// [token.Token] according to the current [Mode]. The mode is set by the
// caller before each call and is never changed by the lexer itself.
//
//	l := lexer.New(`Hello {$= name $}!`)
//	tok, err := l.Next() // Text("Hello ")
//	tok, err = l.Next()  // TagOpen
//	l.SetMode(lexer.ModeTagName)
//	tok, err = l.Next()  // TagName("=")
//	l.SetMode(lexer.ModeTagBody)
//	tok, err = l.Next()  // Variable("name")
//
// # Text mode
//
// Outside of tags the lexer emits TagOpen for "{$" and otherwise accumulates
// literal text up to the next "{$" or the end of input. A backslash escapes
// the following character: "\\" yields "\" and "\{" yields "{". Any other
// escaped character, or a trailing backslash, is an error.
//
// # Tag name mode
//
// Immediately after "{$" the lexer skips whitespace and emits either the
// single-character name "=" or an identifier (a letter followed by letters,
// digits, or underscores).
//
// # Tag body mode
//
// Inside a tag the lexer skips whitespace and recognizes, in order: "$}",
// "@"-prefixed function names, double-quoted strings (escapes \\ \" \n \r
// \t), numerals (optional leading "-", digits, optional "." followed by
// digits), identifiers, and finally any other character as an operator.
package lexer

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/ardnew/smartscript/lang/token"
)

const (
	tagOpen  = "{$"
	tagClose = "$}"
)

// Lexer holds the lexer state for a single input.
// A Lexer is single-use and not safe for concurrent use.
type Lexer struct {
	input []rune
	pos   int
	line  int
	col   int
	mode  Mode
	start token.Position // where the most recent token began
	last  *token.Token   // nil until the first successful Next
	done  bool           // EOF has been produced
}

// New returns a Lexer positioned at the start of input in [ModeText].
func New(input string) *Lexer {
	return &Lexer{
		input: []rune(input),
		pos:   0,
		line:  1,
		col:   1,
		mode:  ModeText,
	}
}

// SetMode sets the rules used by subsequent calls to [Lexer.Next].
func (l *Lexer) SetMode(m Mode) { l.mode = m }

// Mode returns the current mode.
func (l *Lexer) Mode() Mode { return l.mode }

// Position returns the current cursor position.
func (l *Lexer) Position() token.Position {
	return token.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// Start returns the position where the most recent token began, after any
// leading whitespace skipped in tag modes.
func (l *Lexer) Start() token.Position { return l.start }

// Token returns the most recent token produced by [Lexer.Next] without
// advancing. It fails with [ErrNoToken] if Next has not produced a token.
func (l *Lexer) Token() (token.Token, error) {
	if l.last == nil {
		return token.Token{}, ErrNoToken.At(l.line, l.col)
	}

	return *l.last, nil
}

// Next returns the next token according to the current mode.
//
// The EOF token is returned exactly once. Any call after that fails with
// [ErrEndOfInput].
func (l *Lexer) Next() (token.Token, error) {
	if l.done {
		return token.Token{}, ErrEndOfInput.At(l.line, l.col)
	}

	if l.mode == ModeTagName || l.mode == ModeTagBody {
		l.skipWhitespace()
	}

	l.start = l.Position()

	var (
		tok token.Token
		err error
	)

	switch l.mode {
	case ModeText:
		tok, err = l.lexText()

	case ModeTagName:
		tok, err = l.lexTagName()

	case ModeTagBody:
		tok, err = l.lexTagBody()

	default:
		err = ErrInvalidMode.At(l.line, l.col).
			With(slog.String("mode", l.mode.String()))
	}

	if err != nil {
		return token.Token{}, err
	}

	l.last = &tok
	l.done = tok.Is(token.EOF)

	return tok, nil
}

// lexText lexes document text outside of tags.
func (l *Lexer) lexText() (token.Token, error) {
	if l.eof() {
		return token.EndOfInput(), nil
	}

	if l.at(tagOpen) {
		l.advance()
		l.advance()

		return token.Open(), nil
	}

	line, col := l.line, l.col

	var (
		sb      strings.Builder
		escaped bool
	)

	for !l.eof() && !l.at(tagOpen) {
		r := l.peek()
		if r != '\\' {
			sb.WriteRune(r)
			l.advance()

			continue
		}

		escLine, escCol := l.line, l.col

		l.advance() // skip backslash

		if l.eof() {
			return token.Token{}, ErrUnterminatedEscape.At(escLine, escCol)
		}

		switch next := l.peek(); next {
		case '\\', '{':
			sb.WriteRune(next)
			l.advance()

			escaped = true

		default:
			return token.Token{}, ErrInvalidEscape.At(escLine, escCol).
				With(slog.String("escape", `\`+string(next)))
		}
	}

	if sb.Len() == 0 && !escaped {
		return token.Token{}, ErrEmptyText.At(line, col)
	}

	return token.PlainText(sb.String()), nil
}

// lexTagName lexes the name of a tag immediately after its opening sequence.
func (l *Lexer) lexTagName() (token.Token, error) {
	l.skipWhitespace()

	if l.eof() {
		return token.EndOfInput(), nil
	}

	switch r := l.peek(); {
	case r == '=':
		l.advance()

		return token.Name("="), nil

	case isLetter(r):
		return token.Name(l.identifier()), nil

	default:
		return token.Token{}, ErrInvalidTagName.At(l.line, l.col).
			With(slog.String("char", string(r)))
	}
}

// lexTagBody lexes one argument of a tag after its name.
func (l *Lexer) lexTagBody() (token.Token, error) {
	l.skipWhitespace()

	if l.eof() {
		return token.EndOfInput(), nil
	}

	switch r := l.peek(); {
	case l.at(tagClose):
		l.advance()
		l.advance()

		return token.Close(), nil

	case r == '@':
		line, col := l.line, l.col

		l.advance()

		if l.eof() || !isLetter(l.peek()) {
			return token.Token{}, ErrInvalidFunctionName.At(line, col)
		}

		return token.Func(l.identifier()), nil

	case r == '"':
		return l.lexString()

	case isDigit(r), r == '-' && isDigit(l.peekAt(1)):
		return l.lexNumber()

	case isLetter(r):
		return token.Var(l.identifier()), nil

	default:
		l.advance()

		return token.Op(r), nil
	}
}

// lexString lexes a double-quoted string literal starting at the cursor.
func (l *Lexer) lexString() (token.Token, error) {
	line, col := l.line, l.col

	l.advance() // skip opening quote

	var sb strings.Builder

	for {
		if l.eof() {
			return token.Token{}, ErrUnterminatedString.At(line, col)
		}

		r := l.peek()

		switch r {
		case '"':
			l.advance() // skip closing quote

			return token.Str(sb.String()), nil

		case '\\':
			escLine, escCol := l.line, l.col

			l.advance() // skip backslash

			if l.eof() {
				return token.Token{}, ErrUnterminatedString.At(line, col)
			}

			switch next := l.peek(); next {
			case '\\', '"':
				sb.WriteRune(next)
			case 'n':
				sb.WriteRune('\n')
			case 'r':
				sb.WriteRune('\r')
			case 't':
				sb.WriteRune('\t')
			default:
				return token.Token{}, ErrInvalidEscape.At(escLine, escCol).
					With(slog.String("escape", `\`+string(next)))
			}

			l.advance()

		default:
			sb.WriteRune(r)
			l.advance()
		}
	}
}

// lexNumber lexes an integer or double numeral starting at the cursor.
// The cursor is either at a digit or at a '-' followed by a digit.
func (l *Lexer) lexNumber() (token.Token, error) {
	line, col := l.line, l.col
	start := l.pos

	if l.peek() == '-' {
		l.advance()
	}

	l.digits()

	double := false
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		double = true

		l.advance() // skip '.'
		l.digits()
	}

	numeral := string(l.input[start:l.pos])

	if double {
		v, err := strconv.ParseFloat(numeral, 64)
		if err != nil {
			return token.Token{}, ErrInvalidNumber.At(line, col).
				With(slog.String("numeral", numeral)).
				Wrap(err)
		}

		return token.Float(v), nil
	}

	v, err := strconv.ParseInt(numeral, 10, 64)
	if err != nil {
		return token.Token{}, ErrInvalidNumber.At(line, col).
			With(slog.String("numeral", numeral)).
			Wrap(err)
	}

	return token.Int(v), nil
}

// identifier consumes a letter followed by letters, digits, or underscores.
// The cursor must be at a letter.
func (l *Lexer) identifier() string {
	start := l.pos

	l.advance()

	for !l.eof() {
		r := l.peek()
		if !isLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}

		l.advance()
	}

	return string(l.input[start:l.pos])
}

func (l *Lexer) digits() {
	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}
}

// Helper methods

func (l *Lexer) eof() bool { return l.pos >= len(l.input) }

func (l *Lexer) peek() rune { return l.peekAt(0) }

func (l *Lexer) peekAt(n int) rune {
	if l.pos+n >= len(l.input) {
		return 0
	}

	return l.input[l.pos+n]
}

// at reports whether the input at the cursor begins with the two-byte ASCII
// sequence s.
func (l *Lexer) at(s string) bool {
	return l.peekAt(0) == rune(s[0]) && l.peekAt(1) == rune(s[1])
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	r := l.input[l.pos]

	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.eof() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// Character classification

func isLetter(r rune) bool { return unicode.IsLetter(r) }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
