package cmd

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"

	"github.com/ardnew/smartscript/log"
	"github.com/ardnew/smartscript/profile"
)

// Init writes the current flag values to the TOML configuration file.
//
// Flags belonging to a group are written to a table named after the group
// with the group prefix removed, so --log-level becomes:
//
//	[log]
//	level = "info"
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(flagTables(ktx)); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.Component("init").DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// flagTables returns the non-empty flag values of ktx keyed by flag name,
// nesting grouped flags in one table per group.
func flagTables(ktx *kong.Context) map[string]any {
	tables := make(map[string]any)
	ignore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || hasAnyPrefix(flag.Name, ignore) {
			continue
		}

		val := ktx.FlagValue(flag)
		if isEmpty(val) {
			continue
		}

		if flag.Group == nil || flag.Group.Key == "" {
			tables[flag.Name] = val

			continue
		}

		key := flag.Group.Key

		table, ok := tables[key].(map[string]any)
		if !ok {
			table = make(map[string]any)
			tables[key] = table
		}

		table[strings.TrimPrefix(flag.Name, key+"-")] = val
	}

	return tables
}

func hasAnyPrefix(s string, prefix []string) bool {
	for _, p := range prefix {
		if strings.HasPrefix(s, p) {
			return true
		}
	}

	return false
}

func isEmpty(val any) bool {
	switch v := val.(type) {
	case nil:
		return true

	case string:
		return v == ""

	case []string:
		return len(v) == 0

	default:
		return false
	}
}
