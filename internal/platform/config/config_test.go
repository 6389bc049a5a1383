package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DSN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Addr() != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.Addr())
	}
	if cfg.DB.DSN != "" {
		t.Fatalf("expected empty DSN, got %q", cfg.DB.DSN)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Fatalf("expected 24h session ttl, got %v", cfg.Session.TTL)
	}
	if cfg.Walks.RatePerWalk != 300 {
		t.Fatalf("expected rate 300, got %d", cfg.Walks.RatePerWalk)
	}
	if !cfg.InsecureSession() {
		t.Fatalf("expected dev secret to be flagged as insecure")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEV_AUTH", "true")
	t.Setenv("WALK_RATE_PER_WALK", "450")
	t.Setenv("SESSION_SECRET", "prod-secret")
	t.Setenv("DB_PING_TIMEOUT", "500ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Addr() != ":9090" || !cfg.DevAuth || cfg.Walks.RatePerWalk != 450 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.DB.PingTimeout != 500*time.Millisecond {
		t.Fatalf("expected 500ms ping timeout, got %v", cfg.DB.PingTimeout)
	}
	if cfg.InsecureSession() {
		t.Fatalf("custom secret should not be flagged")
	}
}

func TestValidate_RejectsBadPool(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "2")
	t.Setenv("DB_MAX_IDLE_CONNS", "5")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when idle conns exceed open conns")
	}
}
