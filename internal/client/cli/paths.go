package cli

import (
	"os"
	"path/filepath"
	"strings"
)

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tallykeeper")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tallykeeper")
	}
	return "."
}

func defaultDBPath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "tallykeeper", "tallykeeper.db")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "tallykeeper", "tallykeeper.db")
	}
	return "tallykeeper.db"
}
