package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Database drivers understood by the database package.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost      string
	ServerPort      string
	ShutdownTimeout time.Duration

	// Database configuration
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis is optional; without it writes are limited per process.
	RedisURL string

	RateLimitPerMinute int
	CORSAllowedOrigins []string
	LogLevel           string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	cfg := &Config{Environment: GetEnvironment()}

	var errs []string
	cfg.ServerHost = lookup("SERVER_HOST", "0.0.0.0")
	cfg.ServerPort = lookup("SERVER_PORT", "8080")
	cfg.DBDriver = strings.ToLower(lookup("DB_DRIVER", DriverSQLite))
	cfg.DBPath = lookup("DB_PATH", "recipes.db")
	cfg.DBHost = lookup("DB_HOST", "localhost")
	cfg.DBPort = lookup("DB_PORT", "5432")
	cfg.DBUser = lookup("DB_USER", "")
	cfg.DBPassword = lookup("DB_PASSWORD", "")
	cfg.DBName = lookup("DB_NAME", "recipes")
	cfg.DBSSLMode = lookup("DB_SSL_MODE", "disable")
	cfg.RedisURL = lookup("REDIS_URL", "")
	cfg.LogLevel = lookup("LOG_LEVEL", "info")

	if origins := lookup("CORS_ALLOWED_ORIGINS", "http://localhost:5173"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	limit, err := strconv.Atoi(lookup("RATE_LIMIT_PER_MINUTE", "60"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("RATE_LIMIT_PER_MINUTE: %v", err))
	}
	cfg.RateLimitPerMinute = limit

	seconds, err := strconv.Atoi(lookup("SHUTDOWN_TIMEOUT_SECONDS", "10"))
	if err != nil {
		errs = append(errs, fmt.Sprintf("SHUTDOWN_TIMEOUT_SECONDS: %v", err))
	}
	cfg.ShutdownTimeout = time.Duration(seconds) * time.Second

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to parse configuration:\n%s", strings.Join(errs, "\n"))
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// lookup resolves a key from the environment first, then from the Docker secret
// named after the lower-cased key, then falls back to def.
func lookup(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	if v := readSecret(strings.ToLower(key)); v != "" {
		return v
	}
	return def
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
