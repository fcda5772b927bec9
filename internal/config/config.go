package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shockerli/cvt"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StoreDynamoDB = "dynamodb"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

type AWSConfig struct {
	Region           string
	AccessKeyID      string
	SecretAccessKey  string
	DynamoDBEndpoint string
	QuotationsTable  string
}

type RateLimitConfig struct {
	Enabled     bool
	MaxRequests int64
	Window      time.Duration
}

type Config struct {
	Port               string
	Env                string
	PublicBaseURL      string
	JWTSecret          string
	StoreDriver        string
	AWS                AWSConfig
	DatabaseDSN        string
	SQLitePath         string
	RedisAddress       string
	RateLimit          RateLimitConfig
	CORSAllowedOrigins []string
	AllowResend        bool
	LogLevel           string
}

// Load reads the configuration from the environment.
// Precedence: explicit env var > .env file (autoloaded in main) > default.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "5000"),
		Env:           strings.ToLower(getEnv("APP_ENV", EnvProduction)),
		PublicBaseURL: getEnv("FRONTEND_PUBLIC_URL", "http://localhost:3000"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", StoreDynamoDB)),
		AWS: AWSConfig{
			Region:           getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", "local"),
			SecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", "local"),
			DynamoDBEndpoint: os.Getenv("DYNAMODB_ENDPOINT"),
			QuotationsTable:  getEnv("QUOTATIONS_TABLE", "quotations"),
		},
		DatabaseDSN:  os.Getenv("DATABASE_DSN"),
		SQLitePath:   getEnv("SQLITE_PATH", "quotations.db"),
		RedisAddress: getEnv("REDIS_ADDRESS", "localhost:6379"),
		RateLimit: RateLimitConfig{
			Enabled:     parseBool("RATE_LIMIT_ENABLED", false),
			MaxRequests: parsePositiveInt("RATE_LIMIT_MAX_REQUESTS", 60),
			Window:      time.Duration(parsePositiveInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		},
		CORSAllowedOrigins: splitAndTrim(os.Getenv("CORS_ALLOWED_ORIGINS")),
		AllowResend:        parseBool("QUOTATION_ALLOW_RESEND", false),
		LogLevel:           os.Getenv("LOG_LEVEL"),
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, ErrMissingJWTSecret
	}
	switch cfg.StoreDriver {
	case StoreDynamoDB, StoreSQLite:
	case StorePostgres:
		if cfg.DatabaseDSN == "" {
			return Config{}, errors.New("DATABASE_DSN is required for the postgres store")
		}
	default:
		return Config{}, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}

func (c Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := cvt.BoolE(v)
	if err != nil {
		return def
	}
	return b
}

func parsePositiveInt(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := cvt.Int64E(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
