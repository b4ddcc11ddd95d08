// Package config loads minikb settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/minikb/internal/ir"
	"github.com/roach88/minikb/internal/store"
)

// Defaults.
const (
	DefaultDatabase = "kb.db"
	DefaultLogLevel = "info"
)

// Config holds the settings shared by every command.
type Config struct {
	// Database is the SQLite file path, or ":memory:".
	Database string `yaml:"database"`

	// Driver is the database/sql driver: "sqlite3" or "sqlite".
	Driver string `yaml:"driver"`

	// DefaultModel is the model written to when a command gives none.
	DefaultModel string `yaml:"default_model"`

	// Models is the read scope used when a command gives none.
	// Empty means [DefaultModel].
	Models []string `yaml:"models,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:     DefaultDatabase,
		Driver:       store.DefaultDriver,
		DefaultModel: ir.DefaultModel,
		LogLevel:     DefaultLogLevel,
	}
}

// Load reads a YAML config file over the defaults. Fields missing from the
// file keep their default. Unknown fields are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	// An empty file is io.EOF and means all defaults.
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	if !store.IsValidDriver(c.Driver) {
		return fmt.Errorf("invalid driver %q: must be one of %v", c.Driver, store.Drivers)
	}
	if c.DefaultModel == "" {
		return fmt.Errorf("default_model must not be empty")
	}
	for i, m := range c.Models {
		if m == "" {
			return fmt.Errorf("models[%d] is empty", i)
		}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ReadModels returns the configured read scope.
func (c Config) ReadModels() []string {
	if len(c.Models) > 0 {
		return c.Models
	}
	return []string{c.DefaultModel}
}

// Level returns the configured slog level.
// Invalid values fall back to info; Validate reports them.
func (c Config) Level() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: must be debug, info, warn, or error", name)
	}
}
