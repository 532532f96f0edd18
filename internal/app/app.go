package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sundayezeilo/tweets/internal/config"
	"github.com/sundayezeilo/tweets/internal/db/migrations"
	db "github.com/sundayezeilo/tweets/internal/db/sqlc"
	"github.com/sundayezeilo/tweets/internal/metrics"
	"github.com/sundayezeilo/tweets/internal/server"
	"github.com/sundayezeilo/tweets/internal/tweet"
)

// App holds the application dependencies and configuration.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DBPool  *pgxpool.Pool
	GormDB  *gorm.DB
	Counter metrics.Counter
	Server  *server.Server
	Handler *tweet.Handler
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context) (*App, error) {
	if err := loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.App.LogLevel).With("service", cfg.App.ServiceName)

	logger.Info("starting application",
		"env", cfg.App.Environment,
		"version", cfg.App.ServiceVersion,
		"db_driver", cfg.Database.Driver,
		"metrics_backend", cfg.Metrics.Backend,
	)

	a := &App{Config: cfg, Logger: logger}

	repo, err := a.openRepository(ctx)
	if err != nil {
		_ = a.Shutdown()
		return nil, err
	}

	counter, err := newCounter(ctx, cfg.Metrics)
	if err != nil {
		_ = a.Shutdown()
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}
	a.Counter = counter

	svc := tweet.NewService(repo, &tweet.ServiceConfig{
		Counter: counter,
		Logger:  logger,
	})
	a.Handler = tweet.NewHandler(tweet.HandlerConfig{
		Service: svc,
		Logger:  logger,
	})

	a.Server = server.New(cfg, logger, a.Handler, counter)

	logger.Info("application initialized",
		"port", cfg.Server.Port,
	)

	return a, nil
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("server starting",
		"port", a.Config.Server.Port,
	)

	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.Logger.Info("shutting down application")

	if a.Counter != nil {
		if err := a.Counter.Close(); err != nil {
			a.Logger.Warn("failed to close metrics backend", "error", err.Error())
		}
	}

	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Info("database connection closed")
	}

	if a.GormDB != nil {
		if sqlDB, err := a.GormDB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.Logger.Warn("failed to close database", "error", err.Error())
			}
		}
		a.Logger.Info("database connection closed")
	}

	return nil
}

// openRepository connects to the configured store, applies migrations when
// enabled and returns the matching repository.
func (a *App) openRepository(ctx context.Context) (tweet.Repository, error) {
	cfg := a.Config

	switch cfg.Database.Driver {
	case config.DriverGORM:
		gdb, err := connectGorm(ctx, cfg, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.GormDB = gdb

		if cfg.Database.AutoMigrate {
			if err := migrations.Apply(ctx, GormExec(gdb)); err != nil {
				return nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
			a.Logger.Info("migrations applied")
		}
		return tweet.NewGormRepository(gdb), nil

	default:
		pool, err := connectDatabase(ctx, cfg, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.DBPool = pool

		if cfg.Database.AutoMigrate {
			if err := migrations.Apply(ctx, PoolExec(pool)); err != nil {
				return nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
			a.Logger.Info("migrations applied")
		}
		return tweet.NewRepository(db.New(pool), &tweet.RepositoryConfig{DB: pool}), nil
	}
}

// PoolExec runs migration statements on a pgx pool.
func PoolExec(pool *pgxpool.Pool) migrations.ExecFunc {
	return func(ctx context.Context, stmt string) error {
		_, err := pool.Exec(ctx, stmt)
		return err
	}
}

// GormExec runs migration statements through gorm.
func GormExec(gdb *gorm.DB) migrations.ExecFunc {
	return func(ctx context.Context, stmt string) error {
		return gdb.WithContext(ctx).Exec(stmt).Error
	}
}

func newCounter(ctx context.Context, cfg config.MetricsConfig) (metrics.Counter, error) {
	if cfg.Backend == config.MetricsRedis {
		return metrics.NewRedisCounter(ctx, metrics.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		})
	}
	return metrics.NewMemoryCounter(), nil
}

// loadEnv loads .env file only in non-production environments.
func loadEnv() error {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "test" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file found.")
		}
	}
	return nil
}

// setupLogger creates a structured logger based on the log level.
func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

// connectDatabase establishes a connection to the PostgreSQL database.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")

	return pool, nil
}

// connectGorm opens the same database through gorm's postgres driver.
func connectGorm(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	logger.Info("connecting to database through gorm",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	gdb, err := gorm.Open(postgres.Open(cfg.Database.ConnectionString()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(int(cfg.Database.MaxConns))
	sqlDB.SetMaxIdleConns(int(cfg.Database.MinConns))

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")

	return gdb, nil
}
