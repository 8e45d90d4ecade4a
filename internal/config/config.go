package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Session store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

const minSecretLen = 16

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Session   SessionConfig   `yaml:"session"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Engine    EngineConfig    `yaml:"engine"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type SessionConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
	// GeneratePerMinute is the sustained generation rate allowed per
	// session. Zero disables the limit.
	GeneratePerMinute float64 `yaml:"generate_per_minute"`
	GenerateBurst     int     `yaml:"generate_burst"`
	SecureCookie      bool    `yaml:"secure_cookie"`
	// PurgeSchedule is a cron spec for removing expired sessions.
	PurgeSchedule string `yaml:"purge_schedule"`
}

type CatalogConfig struct {
	// Path to a YAML exercise catalog. Empty uses the built-in catalog.
	Path string `yaml:"path"`
}

type EngineConfig struct {
	// Seed for exercise selection. Zero seeds from the clock.
	Seed uint64 `yaml:"seed"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix FORGEPLAN_ and underscore-separated paths:
//
//	FORGEPLAN_SERVER_HOST, FORGEPLAN_SERVER_PORT,
//	FORGEPLAN_DB_DRIVER, FORGEPLAN_DB_HOST, FORGEPLAN_DB_PORT, FORGEPLAN_DB_NAME,
//	FORGEPLAN_DB_USER, FORGEPLAN_DB_PASSWORD, FORGEPLAN_DB_SSLMODE,
//	FORGEPLAN_SESSION_SECRET, FORGEPLAN_SESSION_TTL, FORGEPLAN_SESSION_GENERATE_PER_MINUTE,
//	FORGEPLAN_CATALOG_PATH, FORGEPLAN_ENGINE_SEED,
//	FORGEPLAN_TS_ENABLED, FORGEPLAN_TS_HOSTNAME, FORGEPLAN_TS_STATE_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FORGEPLAN_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FORGEPLAN_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FORGEPLAN_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("FORGEPLAN_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("FORGEPLAN_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("FORGEPLAN_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("FORGEPLAN_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("FORGEPLAN_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("FORGEPLAN_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("FORGEPLAN_SESSION_SECRET"); v != "" {
		cfg.Session.Secret = v
	}
	if v := os.Getenv("FORGEPLAN_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Session.TTL = d
		}
	}
	if v := os.Getenv("FORGEPLAN_SESSION_GENERATE_PER_MINUTE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Session.GeneratePerMinute = f
		}
	}
	if v := os.Getenv("FORGEPLAN_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("FORGEPLAN_ENGINE_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Engine.Seed = seed
		}
	}
	if v := os.Getenv("FORGEPLAN_TS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
	if v := os.Getenv("FORGEPLAN_TS_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("FORGEPLAN_TS_STATE_DIR"); v != "" {
		cfg.Tailscale.StateDir = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverMemory
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 24 * time.Hour
	}
	if cfg.Session.GenerateBurst == 0 {
		cfg.Session.GenerateBurst = 5
	}
	if cfg.Session.PurgeSchedule == "" {
		cfg.Session.PurgeSchedule = "@every 10m"
	}
	if cfg.Tailscale.Hostname == "" {
		cfg.Tailscale.Hostname = "forgeplan"
	}
	if cfg.Tailscale.StateDir == "" {
		cfg.Tailscale.StateDir = "tsnet-state"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverMemory, DriverPostgres, c.Database.Driver)
	}
	if len(c.Session.Secret) < minSecretLen {
		return fmt.Errorf("session.secret must be at least %d characters", minSecretLen)
	}
	if c.Session.TTL < time.Minute {
		return fmt.Errorf("session.ttl must be at least 1m")
	}
	if c.Session.GeneratePerMinute < 0 {
		return fmt.Errorf("session.generate_per_minute must not be negative")
	}
	return nil
}
