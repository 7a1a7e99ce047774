// Package filex contains small filesystem helpers.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) if it does not exist and returns the
// absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// DefaultDataDir returns the default on-device data directory for brewlog,
// under the user config dir when resolvable, otherwise relative to the
// working directory.
func DefaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "brewlog-data"
	}
	return filepath.Join(base, "brewlog")
}
