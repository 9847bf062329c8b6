// Package config loads server settings from the environment, optionally
// primed from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	devJWTSecret = "dev-only-insecure-secret"
)

type Config struct {
	Port int

	// DBDriver selects the store: "sqlite" (DBPath) or "postgres" (DatabaseURL).
	DBDriver    string
	DBPath      string
	DatabaseURL string

	JWTSecret    string
	SessionTTL   time.Duration
	BcryptCost   int
	CookieSecure bool

	// LoginRateLimit is requests per second per client IP on POST /login
	// and POST /register.
	LoginRateLimit float64
	LoginRateBurst int

	LogLevel  string
	LogFormat string

	// SeedFile is an optional YAML product list used on first start.
	SeedFile string
}

// Load reads .env from the working directory if present, then the
// environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Config{
		Port:           getEnvInt("PORT", 8080),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:         getEnv("DB_PATH", "./data/shop.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", devJWTSecret),
		SessionTTL:     getEnvDuration("SESSION_TTL", 24*time.Hour),
		BcryptCost:     getEnvInt("BCRYPT_COST", 10),
		CookieSecure:   getEnvBool("COOKIE_SECURE", false),
		LoginRateLimit: getEnvFloat("LOGIN_RATE_LIMIT", 1),
		LoginRateBurst: getEnvInt("LOGIN_RATE_BURST", 5),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		SeedFile:       getEnv("SEED_FILE", ""),
	}

	return cfg, cfg.Validate()
}

// Validate checks settings that have no usable default.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// InsecureSecret reports whether the built-in development JWT secret is in use.
func (c Config) InsecureSecret() bool {
	return c.JWTSecret == devJWTSecret
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
