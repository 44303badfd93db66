// Package cmd implements the smartscript subcommands.
//
// Every command reads template source from a file path or "-" for stdin,
// parses it with [lang.ParseReader], and writes its result to the output
// stored in the context by [WithOutput] (os.Stdout by default).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the TOML configuration file written by [Init].
	ConfigIdentifier = "config"
)
