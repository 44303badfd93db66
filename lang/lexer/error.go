package lexer

import "github.com/ardnew/smartscript/pkg"

// ErrLexer classifies every error produced by the lexer.
// Use errors.Is(err, ErrLexer) to detect tokenization failures.
var ErrLexer = pkg.NewError("lexer error")

// Predefined errors (sentinel values).
var (
	ErrInvalidEscape       = ErrLexer.Kind("invalid escape sequence")
	ErrUnterminatedEscape  = ErrLexer.Kind("unterminated escape sequence")
	ErrUnterminatedString  = ErrLexer.Kind("unterminated string literal")
	ErrInvalidNumber       = ErrLexer.Kind("invalid number")
	ErrInvalidTagName      = ErrLexer.Kind("invalid tag name")
	ErrInvalidFunctionName = ErrLexer.Kind("invalid function name")
	ErrEmptyText           = ErrLexer.Kind("empty text")
	ErrEndOfInput          = ErrLexer.Kind("token requested after end of input")
	ErrNoToken             = ErrLexer.Kind("no token has been produced")
	ErrInvalidMode         = ErrLexer.Kind("invalid lexer mode")
)
