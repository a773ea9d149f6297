package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"CI", "ENV", "SERVER_HOST", "SERVER_PORT", "DB_DRIVER", "DB_PATH", "DB_HOST", "DB_PORT",
	"DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "REDIS_URL", "RATE_LIMIT_PER_MINUTE",
	"CORS_ALLOWED_ORIGINS", "LOG_LEVEL", "SHUTDOWN_TIMEOUT_SECONDS",
}

// cleanEnv unsets every configuration key for the duration of the test and
// points SECRETS_DIR at an empty directory.
func cleanEnv(t *testing.T) string {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	return dir
}

func TestLoadConfig(t *testing.T) {
	cleanEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "recipes")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "host=db port=5432 user=postgres password=postgres dbname=recipes sslmode=disable", cfg.PostgresDSN())
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "recipes.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadConfigFromSecrets(t *testing.T) {
	dir := cleanEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_path"), []byte("/data/recipes.db\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "server_port"), []byte("3000"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/data/recipes.db", cfg.DBPath)
	assert.Equal(t, "3000", cfg.ServerPort)
}

func TestLoadConfigEnvironmentOverridesSecret(t *testing.T) {
	dir := cleanEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "server_port"), []byte("3000"), 0o600))
	t.Setenv("SERVER_PORT", "4000")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.ServerPort)
}

func TestLoadConfigRejectsBadNumbers(t *testing.T) {
	cleanEnv(t)
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_PER_MINUTE")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment:        Development,
			ServerPort:         "8080",
			DBDriver:           DriverSQLite,
			DBPath:             "recipes.db",
			RateLimitPerMinute: 10,
			ShutdownTimeout:    time.Second,
			LogLevel:           "info",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.ServerPort = "http" }, "SERVER_PORT"},
		{"unknown driver", func(c *Config) { c.DBDriver = "mongo" }, "DB_DRIVER"},
		{"sqlite without path", func(c *Config) { c.DBPath = "" }, "DB_PATH"},
		{"postgres without user", func(c *Config) {
			c.DBDriver = DriverPostgres
			c.DBHost, c.DBPort, c.DBName = "db", "5432", "recipes"
		}, "DB_USER"},
		{"production postgres without password", func(c *Config) {
			c.Environment = Production
			c.DBDriver = DriverPostgres
			c.DBHost, c.DBPort, c.DBUser, c.DBName = "db", "5432", "app", "recipes"
		}, "DB_PASSWORD"},
		{"zero rate limit", func(c *Config) { c.RateLimitPerMinute = 0 }, "RATE_LIMIT_PER_MINUTE"},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			fields := make([]string, len(verrs))
			for i, v := range verrs {
				fields[i] = v.Field
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}
