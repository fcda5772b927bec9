package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	for _, k := range []string{"PORT", "APP_ENV", "FRONTEND_PUBLIC_URL", "STORE_DRIVER", "QUOTATIONS_TABLE",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_MAX_REQUESTS", "RATE_LIMIT_WINDOW_SECONDS", "CORS_ALLOWED_ORIGINS", "QUOTATION_ALLOW_RESEND"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "5000" || cfg.Env != EnvProduction || cfg.PublicBaseURL != "http://localhost:3000" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.StoreDriver != StoreDynamoDB || cfg.AWS.QuotationsTable != "quotations" {
		t.Fatalf("unexpected store defaults: %+v", cfg)
	}
	if cfg.RateLimit.Enabled || cfg.RateLimit.MaxRequests != 60 || cfg.RateLimit.Window != time.Minute {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.AllowResend || cfg.CORSAllowedOrigins != nil || cfg.IsDevelopment() {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "Development")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "-3")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.test , ,https://b.test")
	t.Setenv("QUOTATION_ALLOW_RESEND", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsDevelopment() || cfg.StoreDriver != StoreSQLite {
		t.Fatalf("unexpected env/store: %+v", cfg)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.MaxRequests != 5 || cfg.RateLimit.Window != time.Minute {
		t.Fatalf("unexpected rate limit: %+v", cfg.RateLimit)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.test" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.AllowResend {
		t.Fatalf("expected resend enabled")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		if _, err := Load(); !errors.Is(err, ErrMissingJWTSecret) {
			t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORE_DRIVER", "mongo")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("DATABASE_DSN", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logg := newLogger(Config{Env: EnvDevelopment}, &buf)
	if logg.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level in development, got %s", logg.GetLevel())
	}

	logg = newLogger(Config{Env: EnvProduction, LogLevel: "warn"}, &buf)
	if logg.GetLevel() != logrus.WarnLevel {
		t.Fatalf("expected warn level, got %s", logg.GetLevel())
	}

	LogError(logg, "quotation", "Create", "insert", map[string]string{"id": "q-1"}, errors.New("boom"))
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON entry, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "boom" || entry["module"] != "quotation" || entry["funcName"] != "Create" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}
