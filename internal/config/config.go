package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage: "postgres" or "memory"
	StoreBackend   string `toml:"store_backend"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	RunMigrations  bool   `toml:"run_migrations"`

	// redis (live status broadcast, rate limiting)
	RedisHost            string `toml:"redis_host"`
	RedisPort            string `toml:"redis_port"`
	LiveStatusEnabled    bool   `toml:"live_status_enabled"`
	LiveStatusTTLSeconds int    `toml:"live_status_ttl_seconds"`
	CommandsPerMinLimit  int    `toml:"commands_per_min_limit"`

	// session
	TickIntervalMs        int `toml:"tick_interval_ms"`
	ViewTransitionDelayMs int `toml:"view_transition_delay_ms"`

	// progress stats cache, in megabytes
	StatsCacheSizeMB int `toml:"stats_cache_size_mb"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

func (c *Config) TickInterval() time.Duration {
	if c.TickIntervalMs <= 0 {
		return time.Second
	}
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

func (c *Config) ViewTransitionDelay() time.Duration {
	if c.ViewTransitionDelayMs <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.ViewTransitionDelayMs) * time.Millisecond
}

func (c *Config) LiveStatusTTL() time.Duration {
	if c.LiveStatusTTLSeconds <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(c.LiveStatusTTLSeconds) * time.Second
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://postgres@%s:%s/%s?sslmode=disable",
		c.PostgresHost, c.PostgresPort, c.PostgresDBName,
	)
}

func (c *Config) validate() error {
	if c.Port <= 0 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch c.StoreBackend {
	case "memory":
	case "postgres":
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			return fmt.Errorf("postgres store backend needs host, port and db name")
		}
	default:
		return fmt.Errorf("unknown store backend: [%s]", c.StoreBackend)
	}
	if c.LiveStatusEnabled && (c.RedisHost == "" || c.RedisPort == "") {
		return fmt.Errorf("live status enabled, but redis host/port not set")
	}
	return nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the config for the given env.
func Load(env, path string) (*Config, error) {
	var cfgToml Toml
	if _, err := toml.DecodeFile(path, &cfgToml); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}
	return fromToml(env, &cfgToml)
}

// Parse is the same as Load, but reads the TOML content directly.
func Parse(env, content string) (*Config, error) {
	var cfgToml Toml
	if _, err := toml.Decode(content, &cfgToml); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(env, &cfgToml)
}

func fromToml(env string, cfgToml *Toml) (*Config, error) {
	cfg, err := cfgToml.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = "postgres"
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
