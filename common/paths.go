package common

import (
	"errors"
	"os"
	"path/filepath"
)

// ConfigDir returns the directory holding daemon state. It honours
// AUTOSHOT_CONFIG_DIR and falls back to os.UserConfigDir()/autoshot.
// The directory is created if it does not exist.
func ConfigDir() (string, error) {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		cdr, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(cdr, "autoshot")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", err
	}
	return abs, nil
}

// DefaultSaveDirectory returns ~/Documents/autoshot.
func DefaultSaveDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if home == "" {
		return "", errors.New("home directory is empty")
	}
	return filepath.Join(home, "Documents", "autoshot"), nil
}
