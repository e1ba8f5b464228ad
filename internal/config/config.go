// Package config reads runtime settings from the environment, optionally
// seeded from a .env file. Command-line flags override what is read here.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	DB        string // SQLite path or postgres:// URL
	Addr      string
	AdminUser string
	LogPath   string

	// TrustProxy honours X-Forwarded-For and X-Real-IP when the server
	// sits behind a reverse proxy. Off by default.
	TrustProxy bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OTLPEndpoint string

	LoginAttemptsPerMinute int
}

// Defaults.
const (
	DefaultDB        = "watchdesk.sqlite3"
	DefaultAddr      = ":8080"
	DefaultAdminUser = "Admin"
)

// Load reads envFile into the process environment without overriding
// variables that are already set, then builds a Config from the environment.
// A missing envFile is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset keys.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		DB:            stringOr(getenv("WATCHDESK_DB"), DefaultDB),
		Addr:          stringOr(getenv("WATCHDESK_ADDR"), DefaultAddr),
		AdminUser:     stringOr(getenv("WATCHDESK_ADMIN"), DefaultAdminUser),
		LogPath:       getenv("WATCHDESK_LOG"),
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		OTLPEndpoint:  getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	var err error
	if cfg.RedisDB, err = intOr(getenv, "REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.TrustProxy, err = boolOr(getenv, "WATCHDESK_TRUST_PROXY", false); err != nil {
		return Config{}, err
	}
	if cfg.LoginAttemptsPerMinute, err = intOr(getenv, "LOGIN_ATTEMPTS_PER_MINUTE", 5); err != nil {
		return Config{}, err
	}
	if cfg.LoginAttemptsPerMinute < 1 {
		return Config{}, fmt.Errorf("LOGIN_ATTEMPTS_PER_MINUTE must be positive, got %d", cfg.LoginAttemptsPerMinute)
	}

	return cfg, nil
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func intOr(getenv func(string) string, key string, fallback int) (int, error) {
	v := getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func boolOr(getenv func(string) string, key string, fallback bool) (bool, error) {
	v := getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
