package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/dateformat/pkg/types"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds all configuration for dateformat
type Config struct {
	// Location used for values without zone information ("Local", "UTC" or an IANA name)
	Timezone string `yaml:"timezone" toml:"timezone" json:"timezone" env:"DATEFORMAT_TZ"`

	// Extra rules, appended after the built-in set in file order
	Rules []types.Rule `yaml:"rules" toml:"rules" json:"rules"`

	// Per-expression match timeout
	MatchTimeout Duration `yaml:"match_timeout" toml:"match_timeout" json:"match_timeout" env:"DATEFORMAT_MATCH_TIMEOUT"`

	// Output and logging
	Output   string `yaml:"output" toml:"output" json:"output" env:"DATEFORMAT_OUTPUT"`
	LogLevel string `yaml:"log_level" toml:"log_level" json:"log_level" env:"DATEFORMAT_LOG_LEVEL"`
	Debug    bool   `yaml:"debug" toml:"debug" json:"debug" env:"DATEFORMAT_DEBUG"`

	// Report every matching rule, or only the resolved template
	Explain    bool `yaml:"explain" toml:"explain" json:"explain"`
	FormatOnly bool `yaml:"format_only" toml:"format_only" json:"format_only"`

	// Serve the HTTP API on this address instead of resolving input
	Listen string `yaml:"listen" toml:"listen" json:"listen" env:"DATEFORMAT_LISTEN"`
}

// Duration is a time.Duration that decodes from strings such as "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Timezone:     "Local",
		MatchTimeout: Duration{100 * time.Millisecond},
		Output:       OutputText,
		LogLevel:     "warn",
	}
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	return LoadPath("")
}

// LoadPath is like Load but reads the file at path, which must exist. An
// empty path falls back to the standard locations.
func LoadPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else if configPath := getConfigPath(); configPath != "" {
		// Missing files in the standard locations are fine
		if err := LoadFile(cfg, configPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate configuration
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check for explicit config path
	if path := os.Getenv("DATEFORMAT_CONFIG"); path != "" {
		return path
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "dateformat", "config.yaml")
	}

	// Fall back to home directory
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "dateformat", "config.yaml")
	}

	return ""
}

// LoadFile merges the file at path into cfg. The decoder is chosen by
// extension: .toml, .json/.jsonc, anything else is YAML.
func LoadFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (flag, env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".json", ".jsonc":
		err = json.Unmarshal(jsonc.ToJSON(data), cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) error {
	if tz := os.Getenv("DATEFORMAT_TZ"); tz != "" {
		cfg.Timezone = tz
	}

	if timeout := os.Getenv("DATEFORMAT_MATCH_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid DATEFORMAT_MATCH_TIMEOUT: %w", err)
		}
		cfg.MatchTimeout = Duration{d}
	}

	if output := os.Getenv("DATEFORMAT_OUTPUT"); output != "" {
		cfg.Output = output
	}

	if listen := os.Getenv("DATEFORMAT_LISTEN"); listen != "" {
		cfg.Listen = listen
	}

	if level := os.Getenv("DATEFORMAT_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if debug := os.Getenv("DATEFORMAT_DEBUG"); debug != "" {
		switch debug {
		case "true", "1", "yes":
			cfg.Debug = true
		case "false", "0", "no":
			cfg.Debug = false
		default:
			return fmt.Errorf("invalid DATEFORMAT_DEBUG value: %q (use true/false)", debug)
		}
	}

	return nil
}

// Validate validates the configuration
func Validate(cfg *Config) error {
	if _, err := cfg.Location(); err != nil {
		return err
	}

	if cfg.MatchTimeout.Duration < 0 {
		return fmt.Errorf("match_timeout must be non-negative")
	}

	switch cfg.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("output must be %q or %q, got %q", OutputText, OutputJSON, cfg.Output)
	}

	if _, err := cfg.Level(); err != nil {
		return err
	}

	for i, r := range cfg.Rules {
		if r.Regex == "" {
			return fmt.Errorf("rules[%d] (%s): regex is required", i, r.Label())
		}
		if r.Format == "" {
			return fmt.Errorf("rules[%d] (%s): format is required", i, r.Label())
		}
	}

	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Level returns the log level, raised to debug when Debug is set.
func (c *Config) Level() (zerolog.Level, error) {
	if c.Debug {
		return zerolog.DebugLevel, nil
	}
	if c.LogLevel == "" {
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
