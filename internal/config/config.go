// Package config reads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Session backends.
const (
	SessionMemory = "memory"
	SessionBunt   = "bunt"
	SessionRedis  = "redis"
)

// MinSecretLength is the shortest LEDGERBOT_SECRET accepted.
const MinSecretLength = 32

// Config is the full server configuration.
type Config struct {
	ListenAddr string

	StoreDriver string
	DBPath      string
	DatabaseURL string

	SessionBackend string
	SessionPath    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SessionTTL     time.Duration

	Secret         string
	ChoiceTokenTTL time.Duration
	APITokenTTL    time.Duration

	LogLevel  string
	LogFormat string
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		ListenAddr:     ":8080",
		StoreDriver:    DriverSQLite,
		DBPath:         "./data/ledger.db",
		SessionBackend: SessionBunt,
		SessionPath:    ":memory:",
		RedisAddr:      "localhost:6379",
		SessionTTL:     30 * time.Minute,
		ChoiceTokenTTL: 24 * time.Hour,
		APITokenTTL:    0,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	def := Default()
	cfg := Config{
		ListenAddr:     getEnv("LISTEN_ADDR", def.ListenAddr),
		StoreDriver:    getEnv("STORE_DRIVER", def.StoreDriver),
		DBPath:         getEnv("DB_PATH", def.DBPath),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SessionBackend: getEnv("SESSION_BACKEND", def.SessionBackend),
		SessionPath:    getEnv("SESSION_PATH", def.SessionPath),
		RedisAddr:      getEnv("REDIS_ADDR", def.RedisAddr),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		Secret:         os.Getenv("LEDGERBOT_SECRET"),
		LogLevel:       getEnv("LOG_LEVEL", def.LogLevel),
		LogFormat:      getEnv("LOG_FORMAT", def.LogFormat),
	}

	var errs []error
	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", def.RedisDB); err != nil {
		errs = append(errs, err)
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", def.SessionTTL); err != nil {
		errs = append(errs, err)
	}
	if cfg.ChoiceTokenTTL, err = getDuration("CHOICE_TOKEN_TTL", def.ChoiceTokenTTL); err != nil {
		errs = append(errs, err)
	}
	if cfg.APITokenTTL, err = getDuration("API_TOKEN_TTL", def.APITokenTTL); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.SessionBackend {
	case SessionMemory, SessionBunt:
	case SessionRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis session backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend))
	}

	if len(c.Secret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("LEDGERBOT_SECRET must be at least %d bytes", MinSecretLength))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.ChoiceTokenTTL < c.SessionTTL {
		errs = append(errs, errors.New("CHOICE_TOKEN_TTL must not be shorter than SESSION_TTL"))
	}
	if c.APITokenTTL < 0 {
		errs = append(errs, errors.New("API_TOKEN_TTL must not be negative"))
	}

	return errors.Join(errs...)
}
