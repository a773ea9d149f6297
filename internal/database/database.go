package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/recipebox/backend/config"
)

// Open connects to the configured database and verifies the connection.
func Open(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: NewGormLogger(log, cfg.LogLevel)}

	switch cfg.DBDriver {
	case config.DriverPostgres:
		log.Info("connecting to database",
			slog.String("driver", cfg.DBDriver),
			slog.String("host", cfg.DBHost),
			slog.String("port", cfg.DBPort),
			slog.String("user", cfg.DBUser),
		)

		sqlDB, err := sql.Open("postgres", cfg.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)

		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
		if err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("error opening database: %w", err)
		}
		return verify(db, log)

	case config.DriverSQLite:
		log.Info("opening database", slog.String("driver", cfg.DBDriver), slog.String("path", cfg.DBPath))

		db, err := OpenSQLite(SQLiteDSN(cfg.DBPath), gormCfg)
		if err != nil {
			return nil, err
		}
		return verify(db, log)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// OpenSQLite opens a SQLite database with a single connection; SQLite
// serialises writers anyway and in-memory databases exist per connection.
func OpenSQLite(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// SQLiteDSN adds a busy timeout to a plain file path.
func SQLiteDSN(path string) string {
	if path == ":memory:" || strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000"
}

// Ping checks if the database is accessible
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func verify(db *gorm.DB, log *slog.Logger) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Ping(ctx, db); err != nil {
		Close(db)
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Info("successfully connected to database")
	return db, nil
}

// NewGormLogger routes gorm's logging through slog at a level matching the
// application's log level.
func NewGormLogger(log *slog.Logger, level string) logger.Interface {
	gormLevel := logger.Warn
	switch strings.ToLower(level) {
	case "debug":
		gormLevel = logger.Info
	case "error":
		gormLevel = logger.Error
	}

	return logger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelInfo),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLevel,
			IgnoreRecordNotFoundError: true,
		},
	)
}
