package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/smartscript/cli"
	"github.com/ardnew/smartscript/log"
)

func main() {
	ctx := context.Background()

	err := cli.Run(ctx, os.Exit, os.Args[1:]...)
	if err != nil {
		log.ErrorContext(ctx,
			"run failed",
			slog.Any("error", err),
		) // slog automatically uses LogValue()
		os.Exit(1)
	}
}
