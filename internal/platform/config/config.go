package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds process-level settings sourced from env vars.
// Token settings live in JWTConfig.
type Config struct {
	Port           string
	StorageBackend string
	DatabaseURL    string

	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnLifetime time.Duration

	LogLevel    string
	CORSOrigins []string
	BcryptCost  int
}

// Load reads the process configuration. It does not load .env files; callers do that first.
func Load() (Config, error) {
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		StorageBackend: strings.ToLower(getenv("STORAGE_BACKEND", StorageMemory)),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		CORSOrigins:    parseCSV(getenv("CORS_ALLOWED_ORIGINS", "*")),
		BcryptCost:     bcrypt.DefaultCost,
	}

	switch cfg.StorageBackend {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be memory or postgres, got %q", cfg.StorageBackend)
	}

	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("DB_MAX_CONNS must be a positive integer, got %q", v)
		}
		cfg.DBMaxConns = int32(n)
	}
	if v := os.Getenv("DB_MIN_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("DB_MIN_CONNS must be a non-negative integer, got %q", v)
		}
		cfg.DBMinConns = int32(n)
	}
	if v := os.Getenv("DB_MAX_CONN_LIFETIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("DB_MAX_CONN_LIFETIME must be a duration (e.g. 1h): %w", err)
		}
		cfg.DBMaxConnLifetime = d
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < bcrypt.MinCost || n > bcrypt.MaxCost {
			return Config{}, fmt.Errorf("BCRYPT_COST must be an integer between %d and %d, got %q", bcrypt.MinCost, bcrypt.MaxCost, v)
		}
		cfg.BcryptCost = n
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return ":" + c.Port
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
