package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/smartscript/lang"
	"github.com/ardnew/smartscript/lang/lexer"
	"github.com/ardnew/smartscript/lang/token"
)

// Tokens prints each token of a template with the lexer mode it was read in.
//
// Tokens read before a syntax error are still printed.
type Tokens struct {
	Input Source `embed:""`
}

// Run executes the tokens command.
func (c *Tokens) Run(ctx context.Context) error {
	w := outputFrom(ctx)

	var werr error

	hook := func(mode lexer.Mode, tok token.Token) {
		if werr == nil {
			_, werr = fmt.Fprintf(w, "%-9s %s\n", mode, tok)
		}
	}

	if _, err := c.Input.parse(ctx, lang.WithTokenHook(hook)); err != nil {
		return err
	}

	if werr != nil {
		return ErrWriteOutput.Wrap(werr)
	}

	return nil
}
