package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gdtranslate/pkg/errors"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDictionary   = "goldendict"
	DefaultMaxLength    = 500
	DefaultReadTimeout  = 5 * time.Second
	DefaultLaunchSettle = 500 * time.Millisecond
	DefaultLogLevel     = "warn"
)

// Selection sources understood by the clipboard reader.
const (
	SourcePrimary   = "primary"
	SourceClipboard = "clipboard"
)

// Config holds the settings of a translation run. Zero values are replaced by
// the defaults above; the defaults reproduce the behaviour of a bare run.
type Config struct {
	Dictionary   string        `yaml:"dictionary" env:"GDTRANSLATE_DICTIONARY"`
	Source       string        `yaml:"source" env:"GDTRANSLATE_SOURCE"`
	MaxLength    int           `yaml:"max_length" env:"GDTRANSLATE_MAX_LENGTH"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"GDTRANSLATE_READ_TIMEOUT"`
	LaunchSettle time.Duration `yaml:"launch_settle" env:"GDTRANSLATE_LAUNCH_SETTLE"`
	LogLevel     string        `yaml:"log_level" env:"GDTRANSLATE_LOG_LEVEL"`
}

func Default() *Config {
	return &Config{
		Dictionary:   DefaultDictionary,
		Source:       SourcePrimary,
		MaxLength:    DefaultMaxLength,
		ReadTimeout:  DefaultReadTimeout,
		LaunchSettle: DefaultLaunchSettle,
		LogLevel:     DefaultLogLevel,
	}
}

// Load reads the config file, if any, and applies environment overrides.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, errors.ConfigError("failed to get config path", err)
	}
	return loadFromPath(configPath, nil)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "gdtranslate", "config.yaml"), nil
}

// loadFromPath builds a Config from the file at path and the given
// environment. A nil environ means the process environment.
func loadFromPath(path string, environ map[string]string) (*Config, error) {
	cfg := &Config{}

	if err := loadConfigFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvironmentOverrides(cfg, environ); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadConfigFile reads and parses the config file from the given path
func loadConfigFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		// No config file, defaults and env vars apply
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.ConfigError(errors.ErrMsgConfigUnreadable, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.ConfigError("failed to parse config file", err)
	}

	return nil
}

func applyEnvironmentOverrides(cfg *Config, environ map[string]string) error {
	var err error
	if environ == nil {
		err = env.Parse(cfg)
	} else {
		err = env.Parse(cfg, env.Options{Environment: environ})
	}
	if err != nil {
		return errors.ConfigError("invalid GDTRANSLATE_* environment variable", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Dictionary == "" {
		cfg.Dictionary = def.Dictionary
	}
	if cfg.Source == "" {
		cfg.Source = def.Source
	}
	if cfg.MaxLength == 0 {
		cfg.MaxLength = def.MaxLength
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.LaunchSettle == 0 {
		cfg.LaunchSettle = def.LaunchSettle
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
}

// Validate ensures the configured values are usable
func (c *Config) Validate() error {
	if c.Source != SourcePrimary && c.Source != SourceClipboard {
		return errors.ConfigError(fmt.Sprintf("unknown source %q (expected %q or %q)", c.Source, SourcePrimary, SourceClipboard), nil)
	}
	if c.MaxLength < 0 {
		return errors.ConfigError(fmt.Sprintf("max_length must be positive, got %d", c.MaxLength), nil)
	}
	if c.ReadTimeout < 0 {
		return errors.ConfigError(fmt.Sprintf("read_timeout must be positive, got %s", c.ReadTimeout), nil)
	}
	if c.LaunchSettle < 0 {
		return errors.ConfigError(fmt.Sprintf("launch_settle must be positive, got %s", c.LaunchSettle), nil)
	}
	return nil
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
