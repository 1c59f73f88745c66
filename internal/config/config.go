package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a field is missing from the config file.
const (
	DefaultDatabasePath = "parkwise.db"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	fallbackOperator    = "operator"
)

// Config represents the parkwise configuration stored in .parkwise/config.yaml.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Operator string         `yaml:"operator"`
}

// DatabaseConfig holds the store location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// Default returns a config with every field at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Path returns the config file location under dir.
func Path(dir string) string {
	return filepath.Join(dir, ".parkwise", "config.yaml")
}

// Load reads .parkwise/config.yaml from dir.
// A missing file yields defaults; a malformed file is an error.
func Load(dir string) (*Config, error) {
	f, err := os.Open(Path(dir))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes cfg to .parkwise/config.yaml under dir.
func Save(dir string, cfg *Config) error {
	cfgDir := filepath.Dir(Path(dir))
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create .parkwise dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Operator == "" {
		c.Operator = DefaultOperator()
	}
}

// DefaultOperator returns $USER, or "operator" when it is unset.
func DefaultOperator() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return fallbackOperator
}
