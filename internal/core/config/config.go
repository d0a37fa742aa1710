// Package config handles configuration loading and validation for stagehand.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	LogLevel string     `yaml:"log_level"`
	Plan     PlanConfig `yaml:"plan"`
	Todo     TodoConfig `yaml:"todo"`
	DataDir  string     `yaml:"-"` // set by caller, not from config file
}

// PlanConfig holds plan-mode configuration.
type PlanConfig struct {
	// Dir is where plan artifacts are written; the only writable location
	// during the planning phase. Empty means <data_dir>/plans.
	Dir string `yaml:"dir"`
	// WriteAllowGlobs are extra doublestar patterns the planning-phase
	// write gate admits beyond Dir.
	WriteAllowGlobs []string `yaml:"write_allow_globs"`
}

// TodoConfig holds todo-store configuration.
type TodoConfig struct {
	// Dir is the flat-file record directory. Empty means <data_dir>/todos.
	Dir string `yaml:"dir"`
	// LockTTL is how long an advisory lock is honored before it is
	// considered stale.
	LockTTL time.Duration `yaml:"lock_ttl"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Todo: TodoConfig{
			LockTTL: 10 * time.Minute,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided
// dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.Todo.LockTTL == 0 {
		c.Todo.LockTTL = defaults.Todo.LockTTL
	}
}

// PlanDir returns the plan artifact directory.
func (c *Config) PlanDir() string {
	if c.Plan.Dir != "" {
		return c.Plan.Dir
	}
	return filepath.Join(c.DataDir, "plans")
}

// TodoDir returns the todo record directory.
func (c *Config) TodoDir() string {
	if c.Todo.Dir != "" {
		return c.Todo.Dir
	}
	return filepath.Join(c.DataDir, "todos")
}
