package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix returns the base name used for the configuration and cache
// directories.
//
// By default, Prefix is the base name of the executable file unless it matches
// one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with [Name]
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))
		id = debugBinary.ReplaceAllString(id, Name)
		id = leadingDots.ReplaceAllString(id, "")

		if id == "" {
			return Name
		}

		return id
	},
)

var (
	debugBinary = regexp.MustCompile(`^__debug_bin\d*$`)
	leadingDots = regexp.MustCompile(`^\.+`)
)

// ConfigDir returns the directory holding configuration files.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the directory holding transient files such as REPL
// history.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// userDir returns the [Prefix] subdirectory of the directory reported by
// base, falling back to a dot directory in the user's home and finally to
// the working directory.
func userDir(base func() (string, error), homeSubdir string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, homeSubdir)
		} else if wd, werr := os.Getwd(); werr == nil {
			dir = wd
		} else {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
