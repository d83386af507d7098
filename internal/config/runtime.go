package config

import (
	"os"
	"path/filepath"
)

// GetRuntimePath is usable before any config is parsed; relative paths are
// taken from the home directory.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("MIMIC_RUNTIME_PATH"))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = ".mimic"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
