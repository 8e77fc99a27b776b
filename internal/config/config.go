// Package config provides configuration types, defaults, and persistence for roost.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/nvollmar/roost/internal/log"
)

// Config holds all configuration options for roost.
type Config struct {
	Home     string            `mapstructure:"home"`
	Paths    map[string]string `mapstructure:"paths"`
	Required []string          `mapstructure:"required"`
	Flags    map[string]bool   `mapstructure:"flags"`
	Watch    WatchConfig       `mapstructure:"watch"`
}

// WatchConfig holds config-file watching options for `roost watch`.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Home:  DefaultHome(),
		Paths: map[string]string{},
		Flags: map[string]bool{
			"resolve-cache": true,
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 1 * time.Second,
		},
	}
}

// DefaultHome returns the default home directory for path resolution:
// the current working directory, or "." if it cannot be determined.
func DefaultHome() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// Validate checks the configuration for errors, eagerly at load time so
// misconfiguration fails at startup rather than on first use.
func (c Config) Validate() error {
	if c.Home == "" {
		return fmt.Errorf("home is required")
	}
	if err := ValidatePaths(c.Paths); err != nil {
		return err
	}
	return ValidateRequired(c.Paths, c.Required)
}

// ValidatePaths checks the key -> path-spec map for errors.
// Returns nil if paths are valid or empty.
func ValidatePaths(paths map[string]string) error {
	for key, value := range paths {
		if key == "" {
			return fmt.Errorf("paths: empty key (value %q)", value)
		}
		if value == "" {
			return fmt.Errorf("paths: key %q has an empty value", key)
		}
	}
	return nil
}

// ValidateRequired checks that every required key is actually configured.
// Returns nil if required is empty.
func ValidateRequired(paths map[string]string, required []string) error {
	for _, key := range required {
		if key == "" {
			return fmt.Errorf("required: empty key")
		}
		if _, ok := paths[key]; !ok {
			return fmt.Errorf("required key %q is not configured under paths", key)
		}
	}
	return nil
}

// RequiredKeys returns the keys doctor and ensure must be able to
// materialize: the `required` list, or every configured key when strict is
// set. Keys come back sorted for stable output.
func (c Config) RequiredKeys(strict bool) []string {
	var keys []string
	if strict {
		for key := range c.Paths {
			keys = append(keys, key)
		}
	} else {
		keys = slices.Clone(c.Required)
	}
	slices.Sort(keys)
	return keys
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Roost Configuration

# Base directory for relative path entries (default: current directory).
# Relative entries under paths are joined onto home; absolute entries
# ignore it entirely.
# home: /data/app

# Logical path keys. Use these names in your application or on the CLI
# instead of hard-coding locations.
paths:
  uploads: files/uploads
  cache: var/cache
  # logs: /var/log/app   # absolute entries override home

# Keys that must resolve, exist and be writable for 'roost doctor' to pass.
# Recommended: list every directory your application cannot start without.
required:
  - uploads

# Feature flags
flags:
  resolve-cache: true   # Cache resolved paths per registry instance
  # strict-ensure: true # doctor treats every key as required

# Config watching ('roost watch' re-validates on change)
watch:
  enabled: false
  debounce: 1s
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
