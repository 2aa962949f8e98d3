// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Catalog, Server, Postgres, Kafka, Redis, Search, etc.).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Redis    RedisConfig    `yaml:"redis"`
	Search   SearchConfig   `yaml:"search"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// CatalogConfig locates the game database and controls how it is loaded.
type CatalogConfig struct {
	Path           string        `yaml:"path"`
	Strict         bool          `yaml:"strict"`
	Watch          bool          `yaml:"watch"`
	ReloadDebounce time.Duration `yaml:"reloadDebounce"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int             `yaml:"port"`
	ReadTimeout     time.Duration   `yaml:"readTimeout"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	RequestTimeout  time.Duration   `yaml:"requestTimeout"`
	CORSOrigins     []string        `yaml:"corsOrigins"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig bounds requests per client address.
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
	Burst    int           `yaml:"burst"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
	ExportTimeout   time.Duration `yaml:"exportTimeout"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Enabled       bool        `yaml:"enabled"`
	Brokers       []string    `yaml:"brokers"`
	ConsumerGroup string      `yaml:"consumerGroup"`
	Topics        KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	CatalogReloaded string `yaml:"catalogReloaded"`
}

// RedisConfig holds Redis connection and caching parameters.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// SearchConfig controls query limits.
type SearchConfig struct {
	MaxResults   int `yaml:"maxResults"`
	DefaultLimit int `yaml:"defaultLimit"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	if c.Search.DefaultLimit <= 0 || c.Search.MaxResults <= 0 {
		return fmt.Errorf("search limits must be positive (default %d, max %d)", c.Search.DefaultLimit, c.Search.MaxResults)
	}
	if c.Search.DefaultLimit > c.Search.MaxResults {
		return fmt.Errorf("search default limit %d exceeds max results %d", c.Search.DefaultLimit, c.Search.MaxResults)
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.Requests <= 0 || c.Server.RateLimit.Window <= 0 || c.Server.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit enabled with non-positive requests, window or burst")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka enabled without brokers")
	}
	return nil
}

// defaultConfig returns a Config with defaults for local development.
func defaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path:           "games.db",
			Strict:         true,
			Watch:          false,
			ReloadDebounce: 500 * time.Millisecond,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RequestTimeout:  10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:  false,
				Requests: 600,
				Window:   time.Minute,
				Burst:    50,
			},
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "gamedb",
			User:            "gamedb",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
			ExportTimeout:   2 * time.Minute,
		},
		Kafka: KafkaConfig{
			Enabled:       false,
			Brokers:       []string{"localhost:9092"},
			ConsumerGroup: "gamedb",
			Topics: KafkaTopics{
				CatalogReloaded: "catalog.reloaded",
			},
		},
		Redis: RedisConfig{
			Enabled:  false,
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			PoolSize: 10,
			CacheTTL: 60 * time.Second,
		},
		Search: SearchConfig{
			MaxResults:   500,
			DefaultLimit: 50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads GAMEDB_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GAMEDB_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("GAMEDB_CATALOG_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Catalog.Strict = b
		}
	}
	if v := os.Getenv("GAMEDB_CATALOG_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Catalog.Watch = b
		}
	}
	if v := os.Getenv("GAMEDB_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GAMEDB_SERVER_RATE_LIMIT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.RateLimit.Enabled = b
		}
	}
	if v := os.Getenv("GAMEDB_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("GAMEDB_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("GAMEDB_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("GAMEDB_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("GAMEDB_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("GAMEDB_POSTGRES_SSLMODE"); v != "" {
		cfg.Postgres.SSLMode = v
	}
	if v := os.Getenv("GAMEDB_KAFKA_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Kafka.Enabled = b
		}
	}
	if v := os.Getenv("GAMEDB_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("GAMEDB_REDIS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Redis.Enabled = b
		}
	}
	if v := os.Getenv("GAMEDB_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("GAMEDB_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("GAMEDB_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GAMEDB_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("GAMEDB_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
