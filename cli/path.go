package cli

import (
	"os"
	"path/filepath"

	"github.com/nalply/axp/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// defaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// configPath returns the absolute path to a file or directory formed by
// joining the configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [pkg.ConfigDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	// Create base config directory
	err := os.MkdirAll(pkg.ConfigDir(), defaultDirMode)
	if err != nil {
		return err
	}

	// Create base cache directory
	err = os.MkdirAll(pkg.CacheDir(), defaultDirMode)
	if err != nil {
		return err
	}

	return nil
}
