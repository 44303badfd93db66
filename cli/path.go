package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/smartscript/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// Configuration file names, each read by its own loader.
const (
	jsonConfig = baseConfig + ".json"
	tomlConfig = baseConfig + ".toml"
)

// defaultDirMode is the permission mode for created directories.
const defaultDirMode os.FileMode = 0o700

// configPath returns the path formed by joining the configuration directory
// with the given path elements.
//
// If no elements are given, it is equivalent to calling [pkg.ConfigDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// cachePath returns the path formed by joining the cache directory with the
// given path elements.
func cachePath(elem ...string) string {
	return filepath.Join(append([]string{pkg.CacheDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return ErrRuntimeDir.Wrap(err)
		}
	}

	return nil
}
