package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Finalizer FinalizerConfig `yaml:"finalizer"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
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
	EnablePostgresDDL      bool   `yaml:"enable_postgres_ddl"`
}

// FinalizerConfig holds the configuration for the end-of-day attendance sweep.
type FinalizerConfig struct {
	Enabled              bool          `yaml:"enabled"`
	BoundaryHour         int           `yaml:"boundary_hour"`
	CheckIntervalSeconds int           `yaml:"check_interval_seconds"`
	CheckInterval        time.Duration `yaml:"-"` // Ignored by YAML parser
	Timezone             string        `yaml:"timezone"`
	WorkerPoolSize       int           `yaml:"worker_pool_size"`
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

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Finalizer.BoundaryHour < 0 || cfg.Finalizer.BoundaryHour > 23 {
		log.Printf("finalizer.boundary_hour %d is out of range; defaulting to 0 (midnight)", cfg.Finalizer.BoundaryHour)
		cfg.Finalizer.BoundaryHour = 0
	}
	if cfg.Finalizer.CheckIntervalSeconds <= 0 {
		cfg.Finalizer.CheckIntervalSeconds = 300
	}
	cfg.Finalizer.CheckInterval = time.Duration(cfg.Finalizer.CheckIntervalSeconds) * time.Second

	if cfg.Finalizer.Timezone == "" {
		cfg.Finalizer.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(cfg.Finalizer.Timezone); err != nil {
		log.Printf("finalizer.timezone %q is invalid; defaulting to UTC", cfg.Finalizer.Timezone)
		cfg.Finalizer.Timezone = "UTC"
	}

	if cfg.Finalizer.WorkerPoolSize <= 0 {
		log.Printf("finalizer.worker_pool_size is not set or invalid; defaulting to 1")
		cfg.Finalizer.WorkerPoolSize = 1
	}

	return &cfg, nil
}
