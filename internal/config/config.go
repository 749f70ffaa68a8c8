package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds server configuration loaded from environment variables.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	StorageType      string        `envconfig:"STORAGE_TYPE" default:"memory"`
	RedisURL         string        `envconfig:"REDIS_URL"`
	RedisKeyPrefix   string        `envconfig:"REDIS_KEY_PREFIX" default:"pelada"`
	RegistrationTTL  time.Duration `envconfig:"REGISTRATION_TTL" default:"0s"`
	DatabaseURL      string        `envconfig:"DATABASE_URL"`
	LevelDBDir       string        `envconfig:"LEVELDB_DIR" default:"data"`
	PlayerBasePath   string        `envconfig:"PLAYER_BASE_PATH" default:"data/players.csv"`
	PlayerBaseSheet  string        `envconfig:"PLAYER_BASE_SHEET" default:"Banco"`
	MaxOutfield      int           `envconfig:"MAX_OUTFIELD" default:"18"`
	MaxGoalkeepers   int           `envconfig:"MAX_GOALKEEPERS" default:"2"`
	BalancerVariant  string        `envconfig:"BALANCER_VARIANT" default:"alternating"`
	RegistrationOpen bool          `envconfig:"REGISTRATION_OPEN" default:"true"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that depend on each other
func (c *Config) Validate() error {
	switch c.StorageType {
	case "memory", "leveldb":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL required when STORAGE_TYPE=redis")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL required when STORAGE_TYPE=postgres")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be memory, redis, postgres or leveldb", c.StorageType)
	}

	if c.MaxOutfield < 0 || c.MaxGoalkeepers < 0 {
		return fmt.Errorf("capacity limits must not be negative")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
