package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != EnvLocal || cfg.HTTPAddr != ":3000" || cfg.DatabaseURL != "todotrek.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AccessTokenTTL != 24*time.Hour || cfg.VerificationTokenTTL != 15*time.Minute {
		t.Fatalf("ttl defaults: %v %v", cfg.AccessTokenTTL, cfg.VerificationTokenTTL)
	}
	if cfg.StoreTimeout != 5*time.Second || cfg.AuditInterval != 6*time.Hour || cfg.PurgeAt != "03:30" {
		t.Fatalf("maintenance defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "PROD")
	t.Setenv("FRONTEND_URL", "https://todo.example.com/")
	t.Setenv("STORE_TIMEOUT", "2s")
	t.Setenv("AUDIT_INTERVAL", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != EnvProd {
		t.Fatalf("env = %q", cfg.Env)
	}
	if cfg.FrontendURL != "https://todo.example.com" {
		t.Fatalf("frontend url = %q", cfg.FrontendURL)
	}
	if cfg.StoreTimeout != 2*time.Second || cfg.AuditInterval != 0 {
		t.Fatalf("durations: %v %v", cfg.StoreTimeout, cfg.AuditInterval)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
	if _, err := LoadForMaintenance(); err != nil {
		t.Fatalf("maintenance load: %v", err)
	}
}

func TestLoadRejectsUnknownEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "staging")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown APP_ENV")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}
