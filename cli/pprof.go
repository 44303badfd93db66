//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/smartscript/log"
	"github.com/ardnew/smartscript/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling"         placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory"                                 type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      cachePath(profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// start starts profiling if configured and returns the function stopping it.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	attrs := []slog.Attr{slog.String("mode", f.Mode), slog.String("dir", f.Dir)}

	log.Component("pprof").DebugContext(ctx, "pprof start", attrs...)

	profiler := profile.Make(
		profile.WithMode(f.Mode),
		profile.WithPath(f.Dir),
		profile.WithQuiet(true),
	).Start()

	return func() {
		log.Component("pprof").DebugContext(ctx, "pprof stop", attrs...)
		profiler.Stop()
	}
}
