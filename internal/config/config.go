// Package config loads cashflow90 settings from TOML, a local .env file, and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Source backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendREST     = "rest"
	BackendNone     = "none"
)

// Config holds all cashflow90 configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Source     SourceConfig     `toml:"source"`
	Automation AutomationConfig `toml:"automation"`
	Synthetic  SyntheticConfig  `toml:"synthetic"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	CompanyID   string  `toml:"company_id"`
	Days        int     `toml:"days"`
	HorizonDays int     `toml:"horizon_days"`
	SeedBalance float64 `toml:"seed_balance"`
}

// SourceConfig selects and configures the upstream data source.
type SourceConfig struct {
	Backend     string `toml:"backend"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresURL string `toml:"postgres_url,omitempty"`
	RESTURL     string `toml:"rest_url,omitempty"`
	RESTKey     string `toml:"rest_key,omitempty"`
}

// AutomationConfig configures the scenario trigger.
type AutomationConfig struct {
	WebhookURL       string `toml:"webhook_url,omitempty"`
	TimeoutSec       int    `toml:"timeout_sec"`
	SimulatedDelayMS int    `toml:"simulated_delay_ms"`
}

// SyntheticConfig seeds the demo dataset.
type SyntheticConfig struct {
	Seed uint64 `toml:"seed"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr            string `toml:"addr"`
	RefreshSchedule string `toml:"refresh_schedule"`
	EventsBuffer    int    `toml:"events_buffer"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			CompanyID:   "11111111-1111-1111-1111-111111111111",
			Days:        90,
			HorizonDays: 90,
			SeedBalance: 50000,
		},
		Source: SourceConfig{
			Backend: BackendSQLite,
		},
		Automation: AutomationConfig{
			TimeoutSec:       10,
			SimulatedDelayMS: 1500,
		},
		Synthetic: SyntheticConfig{
			Seed: 90,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8790",
			RefreshSchedule: "@every 1m",
			EventsBuffer:    200,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashflow90")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cashflow90")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "cashflow90")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "cashflow90")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads .env from the working directory and then the config file,
// returning defaults if the file doesn't exist.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), fmt.Errorf("reading .env: %w", err)
	}
	return LoadFile(ConfigPath())
}

// LoadFile reads the config at path over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot work.
func (c Config) Validate() error {
	switch c.Source.Backend {
	case BackendSQLite, BackendPostgres, BackendREST, BackendNone:
	default:
		return fmt.Errorf("config: unknown source backend %q", c.Source.Backend)
	}
	if c.General.Days < 0 {
		return fmt.Errorf("config: days must not be negative, got %d", c.General.Days)
	}
	if c.Server.EventsBuffer < 0 {
		return fmt.Errorf("config: events_buffer must not be negative, got %d", c.Server.EventsBuffer)
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(cfg, ConfigPath())
}

// SaveFile writes the config to path with owner-only permissions.
func SaveFile(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetCompanyID returns the company from env var or config, in that order.
func GetCompanyID(cfg Config) string {
	return envOr("CASHFLOW90_COMPANY_ID", cfg.General.CompanyID)
}

// GetSQLitePath returns the configured database path or the default one.
func GetSQLitePath(cfg Config) string {
	if cfg.Source.SQLitePath != "" {
		return cfg.Source.SQLitePath
	}
	return filepath.Join(DataDir(), "cashflow90.db")
}

// GetPostgresURL returns DATABASE_URL or the configured connection string.
func GetPostgresURL(cfg Config) string {
	return envOr("DATABASE_URL", cfg.Source.PostgresURL)
}

// GetRESTURL returns SUPABASE_URL or the configured REST endpoint.
func GetRESTURL(cfg Config) string {
	return envOr("SUPABASE_URL", cfg.Source.RESTURL)
}

// GetRESTKey returns SUPABASE_ANON_KEY or the configured key.
func GetRESTKey(cfg Config) string {
	return envOr("SUPABASE_ANON_KEY", cfg.Source.RESTKey)
}

// GetWebhookURL returns the automation webhook from env var or config.
func GetWebhookURL(cfg Config) string {
	return envOr("CASHFLOW90_WEBHOOK_URL", cfg.Automation.WebhookURL)
}

// GetLogLevel returns the log level from env var or config.
func GetLogLevel(cfg Config) string {
	return envOr("CASHFLOW90_LOG_LEVEL", cfg.Log.Level)
}
