package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/router"
	"github.com/pageza/recipebox/backend/internal/server"
	"github.com/pageza/recipebox/backend/internal/service"
)

const name = "recipes-api"

// overridden during build with ldflags
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logging.SetDefaultStructuredLogger(name, version, cfg.LogLevel)
	log.Info("starting server",
		slog.String("environment", string(cfg.Environment)),
		slog.String("address", cfg.Addr()),
		slog.String("dbDriver", cfg.DBDriver),
	)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.EnsureSchema(db); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	} else {
		log.Info("REDIS_URL not set, rate limiting recipe creation per process")
	}

	limiter, err := middleware.NewRecipeCreationLimiter(redisClient, cfg.RateLimitPerMinute)
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}

	handler := router.SetupRouter(router.Dependencies{
		RecipeService: service.NewRecipeService(db),
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
		Logger:         log,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Version:        version,
		Limiter:        limiter,
	})

	if err := server.New(cfg, handler, log).Start(ctx); err != nil {
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}
