// Package config loads cashplan settings from the TOML config file,
// with environment variables taking precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all cashplan configuration.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Forecast ForecastConfig `toml:"forecast"`
	Plan     PlanConfig     `toml:"plan"`
	Daemon   DaemonConfig   `toml:"daemon"`
	Logging  LoggingConfig  `toml:"logging"`
}

// DatabaseConfig holds the database location.
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// ForecastConfig holds forecasting preferences.
type ForecastConfig struct {
	HorizonDays int    `toml:"horizon_days"`
	ServiceURL  string `toml:"service_url,omitempty"`
}

// PlanConfig holds payment plan preferences.
type PlanConfig struct {
	HorizonDays int `toml:"horizon_days"`
}

// DaemonConfig holds scheduler daemon settings.
type DaemonConfig struct {
	Addr     string `toml:"addr"`
	CronSpec string `toml:"cron"`
	AgingCSV string `toml:"aging_csv,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{URL: filepath.Join("data", "cashplan.db")},
		Forecast: ForecastConfig{HorizonDays: 14},
		Plan:     PlanConfig{HorizonDays: 91},
		Daemon: DaemonConfig{
			Addr:     "127.0.0.1:8000",
			CronSpec: "0 0 1 * *",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cashplan")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist,
// then applies environment overrides (DATABASE_URL, HORIZON_DAYS,
// CASHPLAN_ADDR, CREDITORS_AGING_CSV, LOG_LEVEL, FORECAST_URL).
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("HORIZON_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Forecast.HorizonDays = n
		}
	}
	if v := os.Getenv("CASHPLAN_ADDR"); v != "" {
		cfg.Daemon.Addr = v
	}
	if v := os.Getenv("CREDITORS_AGING_CSV"); v != "" {
		cfg.Daemon.AgingCSV = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FORECAST_URL"); v != "" {
		cfg.Forecast.ServiceURL = v
	}
}
