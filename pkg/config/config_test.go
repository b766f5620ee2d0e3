package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tradedeck")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8090" {
		t.Errorf("expected default port 8090, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.Database.MaxConns != 25 {
		t.Errorf("expected default max conns 25, got %d", cfg.Database.MaxConns)
	}
	if cfg.Database.MaxConnLifetime != time.Hour {
		t.Errorf("expected default conn lifetime 1h, got %v", cfg.Database.MaxConnLifetime)
	}
	if cfg.CoinGecko.BaseURL != "https://api.coingecko.com/api/v3" {
		t.Errorf("unexpected coingecko base url: %s", cfg.CoinGecko.BaseURL)
	}
	if cfg.ScoringConfigPath != "config/scoring.yaml" {
		t.Errorf("unexpected scoring config path: %s", cfg.ScoringConfigPath)
	}
}

func TestLoadRejectsUnknownEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tradedeck")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "sandbox")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown ENV value")
	}
}

func TestLoadRequiresJWTSecretWhenAuthEnabled(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tradedeck")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AUTH_ENABLED", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET missing with auth enabled")
	}

	// Disabled auth does not need a secret
	t.Setenv("AUTH_ENABLED", "false")
	if _, err := Load(); err != nil {
		t.Fatalf("Load failed with auth disabled: %v", err)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "not-a-number")
	t.Setenv("TEST_FLOAT", "0.75")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DURATION", "90s")

	if got := getEnvAsInt("TEST_INT", 0); got != 42 {
		t.Errorf("getEnvAsInt = %d, want 42", got)
	}
	if got := getEnvAsInt("TEST_BAD_INT", 7); got != 7 {
		t.Errorf("getEnvAsInt fallback = %d, want 7", got)
	}
	if got := getEnvAsFloat("TEST_FLOAT", 0); got != 0.75 {
		t.Errorf("getEnvAsFloat = %v, want 0.75", got)
	}
	if got := getEnvAsBool("TEST_BOOL", false); !got {
		t.Error("getEnvAsBool = false, want true")
	}
	if got := getEnvAsDuration("TEST_DURATION", "10s"); got != 90*time.Second {
		t.Errorf("getEnvAsDuration = %v, want 90s", got)
	}
	if got := getEnvAsDuration("TEST_MISSING_DURATION", "10s"); got != 10*time.Second {
		t.Errorf("getEnvAsDuration default = %v, want 10s", got)
	}
}
