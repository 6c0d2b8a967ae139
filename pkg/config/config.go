// Package config reads interpreter and server settings from .env files and
// the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvLogLevel     = "OOMPH_LOG_LEVEL"
	EnvMaxCallDepth = "OOMPH_MAX_CALL_DEPTH"
	EnvHistoryFile  = "OOMPH_HISTORY_FILE"
	EnvServeAddr    = "OOMPH_SERVE_ADDR"
	EnvJWTSecret    = "OOMPH_JWT_SECRET"
	EnvPasswordHash = "OOMPH_PASSWORD_HASH"
	EnvTokenTTL     = "OOMPH_TOKEN_TTL"
)

type Config struct {
	LogLevel     slog.Level
	MaxCallDepth int
	HistoryFile  string
	ServeAddr    string
	JWTSecret    string
	PasswordHash string
	TokenTTL     time.Duration
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	history := ".oomph_history"
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".oomph_history")
	}
	return &Config{
		LogLevel:     slog.LevelWarn,
		MaxCallDepth: 100000,
		HistoryFile:  history,
		ServeAddr:    ":8080",
		TokenTTL:     time.Hour,
	}
}

// Load reads the given .env files, or ./.env when none are given, and then
// the environment. Variables already set in the environment win over file
// values. A missing ./.env is not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("loading %v: %w", files, err)
	}

	cfg := Default()

	if v := os.Getenv(EnvLogLevel); v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
	}

	if v := os.Getenv(EnvMaxCallDepth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer, got %q", EnvMaxCallDepth, v)
		}
		cfg.MaxCallDepth = n
	}

	if v := os.Getenv(EnvHistoryFile); v != "" {
		cfg.HistoryFile = v
	}
	if v := os.Getenv(EnvServeAddr); v != "" {
		cfg.ServeAddr = v
	}
	cfg.JWTSecret = os.Getenv(EnvJWTSecret)
	cfg.PasswordHash = os.Getenv(EnvPasswordHash)

	if v := os.Getenv(EnvTokenTTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid duration: %w", EnvTokenTTL, err)
		}
		cfg.TokenTTL = ttl
	}

	return cfg, nil
}

// ParseLevel accepts debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	return level, nil
}

// CheckServer reports the settings the websocket server cannot run without.
func (c *Config) CheckServer() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, fmt.Errorf("%s is not set", EnvJWTSecret))
	}
	if c.PasswordHash == "" {
		errs = append(errs, fmt.Errorf("%s is not set (see `oomph hash-password`)", EnvPasswordHash))
	}
	return errors.Join(errs...)
}
