package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
)

// overridden during build with ldflags
var version = "dev"

// migrate creates or updates the recipes table in the configured database
// without starting the API server.
func main() {
	if err := run(); err != nil {
		slog.Error("migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := logging.SetDefaultStructuredLogger("recipes-migrate", version, cfg.LogLevel)

	db, err := database.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.EnsureSchema(db); err != nil {
		return err
	}
	log.Info("schema is up to date", slog.String("driver", cfg.DBDriver))
	return nil
}
