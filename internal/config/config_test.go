package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_NAME", "APP_PORT", "CORS_ALLOW_ORIGIN", "LOG_LEVEL", "REDIS_DB", "POSTGRES_RUN_MIGRATIONS", "HTTP_REQUEST_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Name != "support-desk" {
		t.Fatalf("expected default app name, got %q", cfg.App.Name)
	}
	if cfg.App.Port != "5000" {
		t.Fatalf("expected default port 5000, got %q", cfg.App.Port)
	}
	if cfg.App.CORSAllowOrigin != "*" {
		t.Fatalf("expected wildcard CORS default, got %q", cfg.App.CORSAllowOrigin)
	}
	if !cfg.Postgres.RunMigrations {
		t.Fatal("migrations should default to enabled")
	}
	if cfg.App.RequestTimeout() != 30*time.Second {
		t.Fatalf("expected 30s request timeout, got %v", cfg.App.RequestTimeout())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9999")
	t.Setenv("CORS_ALLOW_ORIGIN", "https://desk.example.com")
	t.Setenv("POSTGRES_MAX_CONNS", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Addr() != "127.0.0.1:9999" {
		t.Fatalf("unexpected addr %q", cfg.App.Addr())
	}
	if cfg.App.CORSAllowOrigin != "https://desk.example.com" {
		t.Fatalf("unexpected CORS origin %q", cfg.App.CORSAllowOrigin)
	}
	if cfg.Postgres.MaxConns != 42 {
		t.Fatalf("unexpected max conns %d", cfg.Postgres.MaxConns)
	}
}

func TestMalformedIntsFallBack(t *testing.T) {
	t.Setenv("POSTGRES_MAX_CONNS", "lots")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Postgres.MaxConns != 10 {
		t.Fatalf("malformed int should fall back, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.App.RequestTimeoutSeconds != 30 {
		t.Fatalf("malformed int should fall back, got %d", cfg.App.RequestTimeoutSeconds)
	}
}
