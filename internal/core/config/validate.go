package config

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
)

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, notEmpty),
		criterio.Run("log_level", c.LogLevel, validLogLevel),
		c.validateLockTTL(),
		c.validateWriteGlobs(),
	)
}

// ValidateDeep performs comprehensive validation including file
// accessibility. It calls Validate() first for structural validation, then
// adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("plan.dir", c.PlanDir(), isDirectoryOrNotExist),
		criterio.Run("todo.dir", c.TodoDir(), isDirectoryOrNotExist),
	)
}

func (c *Config) validateWriteGlobs() error {
	var errs criterio.FieldErrorsBuilder
	for i, glob := range c.Plan.WriteAllowGlobs {
		if !doublestar.ValidatePattern(glob) {
			errs = errs.Append(fmt.Sprintf("plan.write_allow_globs[%d]", i), fmt.Errorf("invalid pattern %q", glob))
		}
	}
	return errs.ToError()
}

func notEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

func validLogLevel(level string) error {
	switch level {
	case "", "trace", "debug", "info", "warn", "error", "fatal", "panic":
		return nil
	default:
		return fmt.Errorf("unknown level %q", level)
	}
}

func (c *Config) validateLockTTL() error {
	if c.Todo.LockTTL <= 0 {
		return criterio.NewFieldErrors("todo.lock_ttl", fmt.Errorf("must be positive, got %s", c.Todo.LockTTL))
	}
	return nil
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
