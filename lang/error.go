package lang

import "github.com/ardnew/smartscript/pkg"

// ErrParse classifies every error returned by [Parse] and [ParseReader].
// Lexer failures encountered while parsing are wrapped by ErrParse, so
// errors.Is(err, lexer.ErrLexer) also holds for those.
var ErrParse = pkg.NewError("parse error")

// Predefined errors (sentinel values).
var (
	ErrUnexpectedToken = ErrParse.Kind("unexpected token")
	ErrUnknownTag      = ErrParse.Kind("invalid tag name")
	ErrInvalidOperator = ErrParse.Kind("invalid operator")
	ErrEmptyEcho       = ErrParse.Kind("echo body cannot be empty")
	ErrUnclosedTag     = ErrParse.Kind("tag never closed")
	ErrForVariable     = ErrParse.Kind("first FOR argument must be a variable")
	ErrForArgument     = ErrParse.Kind("invalid FOR argument")
	ErrForArity        = ErrParse.Kind("FOR takes at most four arguments")
	ErrEndArguments    = ErrParse.Kind("END cannot take arguments")
	ErrUnmatchedEnd    = ErrParse.Kind("more END tags than opened blocks")
	ErrMissingEnd      = ErrParse.Kind("missing END tag(s)")
)

// ErrReadInput reports a failure reading template source.
var ErrReadInput = pkg.NewError("failed to read input")
