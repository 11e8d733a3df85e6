// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Capture stores.
const (
	StorePostgres = "postgres"
	StoreBolt     = "bolt"
)

// Config holds all server settings.
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	Profiling     ProfilingConfig
	Observability ObservabilityConfig
	Capture       CaptureConfig
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host               string
	Port               int
	RateLimitPerSecond int
	RateLimitBurst     int
	AllowedOrigins     []string
}

// DatabaseConfig describes the Postgres connection.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds a postgres:// connection string.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// AuthConfig holds the HS256 signing secret for bearer tokens.
type AuthConfig struct {
	JWTSecret string
}

// ProfilingConfig toggles the pprof listener.
type ProfilingConfig struct {
	Enabled bool
	Port    int
}

// ObservabilityConfig toggles the metrics endpoint.
type ObservabilityConfig struct {
	MetricsEnabled bool
}

// CaptureConfig picks the catalog and the transaction store.
type CaptureConfig struct {
	CatalogPath string // empty means the built-in catalog
	Store       string
	BoltPath    string
}

// Load reads the configuration from the environment, applying defaults for
// anything unset.
func Load() (*Config, error) {
	var errs []string
	intVar := func(key string, def int) int {
		raw := os.Getenv(key)
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %q is not a number", key, raw))
			return def
		}
		return n
	}
	boolVar := func(key string, def bool) bool {
		raw := os.Getenv(key)
		if raw == "" {
			return def
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %q is not a boolean", key, raw))
			return def
		}
		return b
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:               getenv("SERVER_HOST", "0.0.0.0"),
			Port:               intVar("SERVER_PORT", 8080),
			RateLimitPerSecond: intVar("RATE_LIMIT_PER_SECOND", 20),
			RateLimitBurst:     intVar("RATE_LIMIT_BURST", 40),
			AllowedOrigins:     splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     intVar("DB_PORT", 5432),
			User:     getenv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getenv("DB_NAME", "echo"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Profiling: ProfilingConfig{
			Enabled: boolVar("PPROF_ENABLED", false),
			Port:    intVar("PPROF_PORT", 6060),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: boolVar("METRICS_ENABLED", true),
		},
		Capture: CaptureConfig{
			CatalogPath: os.Getenv("CAPTURE_CATALOG_PATH"),
			Store:       getenv("CAPTURE_STORE", StorePostgres),
			BoltPath:    getenv("CAPTURE_BOLT_PATH", "capture.db"),
		},
	}

	if cfg.Capture.Store != StorePostgres && cfg.Capture.Store != StoreBolt {
		errs = append(errs, fmt.Sprintf("CAPTURE_STORE: %q must be %s or %s", cfg.Capture.Store, StorePostgres, StoreBolt))
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT: %d out of range", cfg.Server.Port))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
