// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/reporoot/pkg/monorepo"
	"github.com/invowk/reporoot/pkg/types"

	"github.com/charmbracelet/log"
)

const (
	// LogLevelDebug logs every directory visited during a lookup.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs informational messages.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings only (default).
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidCacheSize is returned when the monorepo cache size is negative.
	ErrInvalidCacheSize = errors.New("invalid cache size")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level the CLI logger emits.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// StopFile is the marker searched for when no --stop-file flag is given.
		StopFile types.StopFile `json:"stop_file" mapstructure:"stop_file"`
		// StopOnMonorepoPackage narrows results to the enclosing monorepo package.
		StopOnMonorepoPackage bool `json:"stop_on_monorepo_package" mapstructure:"stop_on_monorepo_package"`
		// Monorepo configures package detection.
		Monorepo MonorepoConfig `json:"monorepo" mapstructure:"monorepo"`
		// Log configures diagnostics on stderr.
		Log LogConfig `json:"log" mapstructure:"log"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// MonorepoConfig configures monorepo package detection.
	MonorepoConfig struct {
		// CacheSize is the number of detected workspaces kept in memory.
		CacheSize int `json:"cache_size" mapstructure:"cache_size"`
		// Tools restricts detection to the listed tools. Empty means all.
		Tools []monorepo.Tool `json:"tools" mapstructure:"tools"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose prints error chains and the rendered guidance for failures.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		StopFile:              types.DefaultStopFile,
		StopOnMonorepoPackage: false,
		Monorepo: MonorepoConfig{
			CacheSize: monorepo.DefaultCacheSize,
			Tools:     []monorepo.Tool{},
		},
		Log: LogConfig{Level: LogLevelWarn},
		UI:  UIConfig{Verbose: false},
	}
}

// Validate returns nil if the LogLevel is recognized.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Level converts the LogLevel to a charmbracelet/log level. Unknown values map
// to warn.
func (l LogLevel) Level() log.Level {
	lvl, err := log.ParseLevel(string(l))
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel so callers can use errors.Is for programmatic detection.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Validate checks every field and collects all failures.
func (c *Config) Validate() error {
	var errs []error
	if err := c.StopFile.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Monorepo.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("%w: monorepo.cache_size %d is negative", ErrInvalidCacheSize, c.Monorepo.CacheSize))
	}
	for _, tool := range c.Monorepo.Tools {
		if err := tool.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.Log.Level.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns the sentinel and every field error for errors.Is/As.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
