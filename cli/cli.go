package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/smartscript/cli/cmd"
	"github.com/ardnew/smartscript/pkg"
)

// CLI is the top-level command-line interface for smartscript.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit."`

	Fmt    cmd.Fmt    `cmd:"" help:"Format a template."`
	Check  cmd.Check  `cmd:"" help:"Report whether templates are well formed."`
	Tokens cmd.Tokens `cmd:"" help:"Print the token stream of a template."`
	Repl   cmd.Repl   `cmd:"" help:"Parse templates interactively."`
	Init   cmd.Init   `cmd:"" help:"Initialize configuration file."`
}

// Run executes the smartscript CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	vars := kong.Vars{
		"version":            pkg.Name + " " + pkg.Version(),
		cmd.ConfigIdentifier: configPath(tomlConfig),
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong parses anything so that they hold for
	// messages logged while parsing, wherever they appear on the command line.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		// Resolved when a command runs, after ctx carries the kong context.
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(jsonConfig)),
		kong.Configuration(resolve(ctx), configPath(tomlConfig)),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
