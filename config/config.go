package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server          ServerConfig          `yaml:"server"`
	Database        DatabaseConfig        `yaml:"database"`
	BankHolidays    BankHolidaysConfig    `yaml:"bank_holidays"`
	PersonDirectory PersonDirectoryConfig `yaml:"person_directory"`
	Scheduling      SchedulingConfig      `yaml:"scheduling"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// BankHolidaysConfig points at the GOV.UK bank-holiday feed.
type BankHolidaysConfig struct {
	URL             string        `yaml:"url"`
	Division        string        `yaml:"division"`
	TimeoutSeconds  int           `yaml:"timeout_seconds"`
	CacheTTLMinutes int           `yaml:"cache_ttl_minutes"`
	CacheTTL        time.Duration `yaml:"-"` // Derived from CacheTTLMinutes
}

// PersonDirectoryConfig defines the upstream person lookup service.
type PersonDirectoryConfig struct {
	URL            string            `yaml:"url"`
	Headers        map[string]string `yaml:"headers"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
}

// SchedulingConfig holds scheduling engine defaults.
type SchedulingConfig struct {
	DefaultTurnaroundDays int `yaml:"default_turnaround_working_days"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.BankHolidays.URL == "" {
		cfg.BankHolidays.URL = "https://www.gov.uk/bank-holidays.json"
	}
	if cfg.BankHolidays.Division == "" {
		cfg.BankHolidays.Division = "england-and-wales"
	}
	if cfg.BankHolidays.TimeoutSeconds <= 0 {
		cfg.BankHolidays.TimeoutSeconds = 30
	}
	if cfg.BankHolidays.CacheTTLMinutes <= 0 {
		cfg.BankHolidays.CacheTTLMinutes = 60
	}
	cfg.BankHolidays.CacheTTL = time.Duration(cfg.BankHolidays.CacheTTLMinutes) * time.Minute

	if cfg.PersonDirectory.TimeoutSeconds <= 0 {
		cfg.PersonDirectory.TimeoutSeconds = 30
	}

	if cfg.Scheduling.DefaultTurnaroundDays <= 0 {
		cfg.Scheduling.DefaultTurnaroundDays = 2
	}

	return &cfg, nil
}
