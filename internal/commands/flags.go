// Package commands implements the stagehand CLI command groups.
package commands

import (
	"os"
	"path/filepath"

	"github.com/colonyops/stagehand/internal/core/config"
)

// Flags holds global flag destinations shared by all commands.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	Session    string
	TodoDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "stagehand", "config.yaml")
}

// DefaultDataDir returns the default data directory. Stagehand is a
// per-project tool, so the data lives alongside the project.
func DefaultDataDir() string {
	return ".stagehand"
}
