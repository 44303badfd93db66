// Package cli contains the command line interface for smartscript.
//
// # Usage
//
//	smartscript fmt [text|json|yaml|ast|html] [source]
//	smartscript check [--vars] source...
//	smartscript tokens [source]
//	smartscript repl
//	smartscript init [--force]
//
// A source of "-" (the default) reads the template from stdin.
//
// # Configuration
//
// Flag defaults are read from config.json and config.toml in the user
// configuration directory, for example ~/.config/smartscript. Command-line
// flags override both. TOML tables are flattened into flag names by joining
// keys with hyphens:
//
//	[log]
//	level = "debug"
//	pretty = false
//
// is equivalent to --log-level=debug --no-log-pretty. The init command writes
// the current flag values in this form.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/smartscript/pprof)
package cli
