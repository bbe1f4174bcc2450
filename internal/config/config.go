// Package config provides configuration management for the club portal.
// Configuration is loaded from ~/.config/clubportal/config.yaml with sensible
// defaults, then overridden from the environment (optionally seeded by a
// .env file in the working directory).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the club portal configuration.
type Config struct {
	API       APIConfig      `yaml:"api"`
	Watch     WatchConfig    `yaml:"watch"`
	Reminders ReminderConfig `yaml:"reminders"`
	Metrics   MetricsConfig  `yaml:"metrics"`
}

// APIConfig locates the event collaborator.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"` // 0 disables the request timeout
}

// WatchConfig controls periodic refresh of the student view.
type WatchConfig struct {
	Cron string `yaml:"cron"`
}

// ReminderConfig controls iCalendar reminder export.
type ReminderConfig struct {
	Dir  string        `yaml:"dir"`
	Lead time.Duration `yaml:"lead"`
}

// MetricsConfig controls the Prometheus textfile written on exit.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

const (
	// DefaultConfigPath is the default location for the config file.
	DefaultConfigPath = "~/.config/clubportal/config.yaml"

	DefaultBaseURL      = "http://localhost:8000"
	DefaultTimeout      = 30 * time.Second
	DefaultWatchCron    = "*/5 * * * *"
	DefaultReminderDir  = "~/.config/clubportal/reminders"
	DefaultReminderLead = 24 * time.Hour

	// Environment overrides.
	EnvBaseURL  = "CLUBPORTAL_API_URL"
	EnvTimeout  = "CLUBPORTAL_API_TIMEOUT"
	EnvTextfile = "CLUBPORTAL_METRICS_TEXTFILE"
)

var (
	globalConfig *Config
	configOnce   sync.Once
	configErr    error
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API:       APIConfig{BaseURL: DefaultBaseURL, Timeout: DefaultTimeout},
		Watch:     WatchConfig{Cron: DefaultWatchCron},
		Reminders: ReminderConfig{Dir: DefaultReminderDir, Lead: DefaultReminderLead},
	}
}

// Load loads the configuration from the default path.
// It returns the cached config on subsequent calls.
func Load() (*Config, error) {
	configOnce.Do(func() {
		globalConfig, configErr = LoadFrom(DefaultConfigPath)
	})
	return globalConfig, configErr
}

// LoadFrom reads path (missing file means defaults) and applies .env and
// environment overrides.
func LoadFrom(path string) (*Config, error) {
	cfg, err := loadFromPath(path)
	if err != nil {
		return nil, err
	}

	// A missing .env is normal; anything else is worth reporting.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromPath loads configuration from a specific file path.
func loadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize fills unset values with defaults.
func (c *Config) Normalize() {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout < 0 {
		c.API.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(c.Watch.Cron) == "" {
		c.Watch.Cron = DefaultWatchCron
	}
	if c.Reminders.Dir == "" {
		c.Reminders.Dir = DefaultReminderDir
	}
	if c.Reminders.Lead <= 0 {
		c.Reminders.Lead = DefaultReminderLead
	}
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.API.Timeout = d
	}
	if v := strings.TrimSpace(os.Getenv(EnvTextfile)); v != "" {
		c.Metrics.Textfile = v
	}
	return nil
}

// ReminderDir returns the reminder directory with ~ expanded.
func (c *Config) ReminderDir() string {
	return ExpandPath(c.Reminders.Dir)
}

// ExpandPath expands a leading ~/ to the home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ResetForTesting resets the global config state. Only use in tests.
func ResetForTesting() {
	configOnce = sync.Once{}
	globalConfig = nil
	configErr = nil
}
