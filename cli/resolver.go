package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"

	"github.com/ardnew/smartscript/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads TOML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.toml")
//
// Tables are flattened by joining keys with hyphens, so the file
//
//	[log]
//	level = "debug"
//	time-layout = "Kitchen"
//
// sets --log-level=debug and --log-time-layout=Kitchen. Keys may use
// underscores in place of hyphens. Command-line flags override config file
// values. A file that is not valid TOML is ignored with a warning.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var raw map[string]any

		if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
			log.Component("config").WarnContext(ctx, "ignoring invalid configuration file",
				slog.String("error", err.Error()))

			return config{}, nil
		}

		cfg := make(config)
		cfg.flatten("", raw)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for flattened TOML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	// Not found: nil lets kong use the default.
	return nil, nil
}

// flatten stores each leaf of table under its hyphen-joined key path. Keys are
// normalized to use hyphens.
func (c config) flatten(prefix string, table map[string]any) {
	for key, val := range table {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := val.(map[string]any); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = flagValue(val)
	}
}

// flagValue converts a decoded TOML value to a form kong can map onto a flag.
// Kong parses numbers and times from strings, and slices from a
// comma-separated list.
func flagValue(val any) any {
	switch v := val.(type) {
	case int64:
		return strconv.FormatInt(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case time.Time:
		return v.Format(time.RFC3339Nano)

	case []any:
		elems := make([]string, len(v))
		for i, e := range v {
			elems[i] = fmt.Sprint(flagValue(e))
		}

		return strings.Join(elems, ",")

	default:
		return v
	}
}
