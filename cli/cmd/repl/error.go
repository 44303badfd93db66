package repl

import "github.com/ardnew/smartscript/pkg"

// Sentinel errors.
var (
	ErrOutOfBounds = pkg.NewError("history index out of range")
	ErrHistory     = pkg.NewError("history file")
)
