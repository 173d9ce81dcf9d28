// Package stdlibcfg resolves and validates the AAA_STDLIB_PATH environment
// variable naming the directory whose files are allowed to
// carry `builtin` markers.
package stdlibcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is the resolved standard-library configuration.
type Config struct {
	// Path is the absolute, cleaned standard-library root.
	Path string
}

// EnvVar is the name of the environment variable carrying the standard
// library path.
const EnvVar = "AAA_STDLIB_PATH"

// Load reads and validates AAA_STDLIB_PATH. A missing or invalid path is a
// fatal initialization error, returned rather than panicking so
// cmd/aaa can report it through the normal CLI error path.
func Load() (*Config, error) {
	raw, ok := os.LookupEnv(EnvVar)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%s is not set", EnvVar)
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: resolving %q: %w", EnvVar, raw, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvVar, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %q is not a directory", EnvVar, abs)
	}

	return &Config{Path: filepath.Clean(abs)}, nil
}

// Contains reports whether the given canonical file path lies within the
// standard-library root.
func (c *Config) Contains(file string) bool {
	abs, err := filepath.Abs(file)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(c.Path, abs)
	if err != nil {
		return false
	}

	return rel == "." || !strings.HasPrefix(rel, "..")
}
