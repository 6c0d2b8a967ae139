package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets the variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvLogLevel, EnvMaxCallDepth, EnvHistoryFile, EnvServeAddr,
		EnvJWTSecret, EnvPasswordHash, EnvTokenTTL,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("log level wrong. got=%s", cfg.LogLevel)
	}
	if cfg.MaxCallDepth != 100000 {
		t.Errorf("max call depth wrong. got=%d", cfg.MaxCallDepth)
	}
	if cfg.ServeAddr != ":8080" {
		t.Errorf("serve addr wrong. got=%q", cfg.ServeAddr)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("token ttl wrong. got=%s", cfg.TokenTTL)
	}
	if !strings.HasSuffix(cfg.HistoryFile, ".oomph_history") {
		t.Errorf("history file wrong. got=%q", cfg.HistoryFile)
	}
	if err := cfg.CheckServer(); err == nil {
		t.Errorf("expected CheckServer to fail without secrets")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, `
OOMPH_LOG_LEVEL=debug
OOMPH_MAX_CALL_DEPTH=50
OOMPH_SERVE_ADDR=127.0.0.1:9000
OOMPH_JWT_SECRET=s3cret
OOMPH_PASSWORD_HASH=hash
OOMPH_TOKEN_TTL=15m
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("log level wrong. got=%s", cfg.LogLevel)
	}
	if cfg.MaxCallDepth != 50 {
		t.Errorf("max call depth wrong. got=%d", cfg.MaxCallDepth)
	}
	if cfg.ServeAddr != "127.0.0.1:9000" {
		t.Errorf("serve addr wrong. got=%q", cfg.ServeAddr)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Errorf("token ttl wrong. got=%s", cfg.TokenTTL)
	}
	if err := cfg.CheckServer(); err != nil {
		t.Errorf("CheckServer failed: %v", err)
	}
}

func TestEnvironmentWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvMaxCallDepth, "7")
	path := writeEnvFile(t, "OOMPH_MAX_CALL_DEPTH=50\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MaxCallDepth != 7 {
		t.Fatalf("environment should win. got=%d", cfg.MaxCallDepth)
	}
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvMaxCallDepth, "deep"},
		{EnvMaxCallDepth, "-1"},
		{EnvLogLevel, "loud"},
		{EnvTokenTTL, "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			t.Chdir(t.TempDir())
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Fatalf("expected error for a missing explicit file")
	}
}
