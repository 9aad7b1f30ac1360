// Package config loads grocery settings.
// Source priority (highest to lowest):
// 1. Environment variables (GROCERY_DIR, GROCERY_BACKEND, GROCERY_EXPORT_DIR, GROCERY_RASTER_FONT)
// 2. Config file given with --config
// 3. $XDG_CONFIG_HOME/grocery/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/grocery/internal/model"
)

const appName = "grocery"

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds every user-tunable setting.
type Config struct {
	DataDir     string `yaml:"data_dir"`
	Backend     string `yaml:"backend"`    // "json" (default) | "sqlite"
	ExportDir   string `yaml:"export_dir"` // empty = current directory
	RasterFont  string `yaml:"raster_font"`
	Theme       string `yaml:"theme"`     // "classic" | "neon" | "mono"
	LogLevel    string `yaml:"log_level"` // "debug" | "info" | "warn" | "error"
	DefaultUnit string `yaml:"default_unit"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		DataDir:     DefaultDataDir(),
		Backend:     BackendJSON,
		Theme:       "classic",
		LogLevel:    "warn",
		DefaultUnit: string(model.DefaultUnit),
	}
}

// DefaultPath is where the config file lives unless --config says otherwise.
func DefaultPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// DefaultDataDir resolves $XDG_DATA_HOME/grocery.
func DefaultDataDir() string {
	xdg.Reload()
	return filepath.Join(xdg.DataHome, appName)
}

// StateDir resolves $XDG_STATE_HOME/grocery, where logs go.
func StateDir() string {
	xdg.Reload()
	return filepath.Join(xdg.StateHome, appName)
}

// Load reads the config file at path (DefaultPath when empty), applies
// environment overrides and validates the result. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GROCERY_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("GROCERY_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("GROCERY_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	if v := os.Getenv("GROCERY_RASTER_FONT"); v != "" {
		cfg.RasterFont = v
	}
}

// Validate normalizes and checks the enumerated fields.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case "":
		c.Backend = BackendJSON
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want json or sqlite)", c.Backend)
	}

	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	switch c.Theme {
	case "":
		c.Theme = "classic"
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q", c.Theme)
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "":
		c.LogLevel = "warn"
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	u, err := model.ParseUnit(c.DefaultUnit, model.DefaultUnit)
	if err != nil {
		return fmt.Errorf("default_unit: %w", err)
	}
	c.DefaultUnit = string(u)

	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	return nil
}

// Unit returns the configured default unit.
func (c *Config) Unit() model.Unit { return model.Unit(c.DefaultUnit) }

// StorePath is the file the sqlite backend opens.
func (c *Config) StorePath() string { return filepath.Join(c.DataDir, "grocery.db") }
