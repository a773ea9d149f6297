package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a Config.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks that the configuration is usable for the selected environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: "must be a port number"})
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{Field: "DB_PATH", Message: "required for sqlite"})
		}
	case DriverPostgres:
		for field, value := range map[string]string{
			"DB_HOST": cfg.DBHost,
			"DB_PORT": cfg.DBPort,
			"DB_USER": cfg.DBUser,
			"DB_NAME": cfg.DBName,
		} {
			if value == "" {
				errs = append(errs, ValidationError{Field: field, Message: "required for postgres"})
			}
		}
		// Local databases often run without a password; deployed ones must not.
		if cfg.DBPassword == "" && (cfg.Environment == Production || cfg.Environment == CI) {
			errs = append(errs, ValidationError{Field: "DB_PASSWORD", Message: "required in " + string(cfg.Environment)})
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unknown driver %q", cfg.DBDriver)})
	}

	if cfg.RateLimitPerMinute <= 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_PER_MINUTE", Message: "must be positive"})
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, ValidationError{Field: "SHUTDOWN_TIMEOUT_SECONDS", Message: "must be positive"})
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{Field: "LOG_LEVEL", Message: fmt.Sprintf("unknown level %q", cfg.LogLevel)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
