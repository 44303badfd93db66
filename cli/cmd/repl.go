package cmd

import (
	"context"

	"github.com/ardnew/smartscript/cli/cmd/repl"
	"github.com/ardnew/smartscript/log"
)

// Repl starts an interactive session that parses each entered line.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	var cacheDir string

	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, cacheDir, log.Default())
}
