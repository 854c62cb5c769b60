package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config keeps runtime settings for the service.
type Config struct {
	Env                  string        `env:"APP_ENV"                envDefault:"local"`
	HTTPAddr             string        `env:"HTTP_ADDR"              envDefault:":3000"`
	DatabaseURL          string        `env:"DATABASE_URL"           envDefault:"todotrek.db"`
	JWTSecret            string        `env:"JWT_SECRET"`
	AccessTokenTTL       time.Duration `env:"ACCESS_TOKEN_TTL"       envDefault:"24h"`
	VerificationTokenTTL time.Duration `env:"VERIFICATION_TOKEN_TTL" envDefault:"15m"`
	FrontendURL          string        `env:"FRONTEND_URL"           envDefault:"http://localhost:5173"`
	StoreTimeout         time.Duration `env:"STORE_TIMEOUT"          envDefault:"5s"`
	LogsPath             string        `env:"LOGS_PATH"`
	TelegramToken        string        `env:"TELEGRAM_TOKEN"`
	AuditInterval        time.Duration `env:"AUDIT_INTERVAL"         envDefault:"6h"`
	PurgeAt              string        `env:"PURGE_AT"               envDefault:"03:30"`
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	return load(true)
}

// LoadForMaintenance reads configuration for commands that only touch the
// store, so JWT_SECRET may be absent.
func LoadForMaintenance() (Config, error) {
	return load(false)
}

func load(requireSecret bool) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.TelegramToken = strings.TrimSpace(cfg.TelegramToken)
	cfg.FrontendURL = strings.TrimRight(strings.TrimSpace(cfg.FrontendURL), "/")

	switch cfg.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return cfg, fmt.Errorf("APP_ENV must be one of local, dev, prod; got %q", cfg.Env)
	}
	if requireSecret && strings.TrimSpace(cfg.JWTSecret) == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.VerificationTokenTTL <= 0 {
		return cfg, fmt.Errorf("token TTLs must be positive")
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 5 * time.Second
	}

	return cfg, nil
}
