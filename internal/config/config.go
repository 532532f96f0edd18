package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Metrics  MetricsConfig
	App      AppConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"SERVER_PORT" required:"true" validate:"required,numeric"`
	Host            string        `envconfig:"SERVER_HOST" required:"true" validate:"required"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" required:"true" validate:"gt=0"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" required:"true" validate:"gt=0"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" required:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" required:"true" validate:"gt=0"`
	// Empty allows every origin.
	CORSOrigins []string `envconfig:"SERVER_CORS_ORIGINS" validate:"dive,required"`
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	return validateStruct(c)
}

// Database drivers.
const (
	DriverPGX  = "pgx"
	DriverGORM = "gorm"
)

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Driver      string `envconfig:"DB_DRIVER" default:"pgx" validate:"oneof=pgx gorm"`
	Host        string `envconfig:"DB_HOST" required:"true" validate:"required"`
	Port        string `envconfig:"DB_PORT" required:"true" validate:"required,numeric"`
	User        string `envconfig:"DB_USER" required:"true" validate:"required"`
	Password    string `envconfig:"DB_PASSWORD" required:"true" validate:"required"`
	Name        string `envconfig:"DB_NAME" required:"true" validate:"required"`
	SSLMode     string `envconfig:"DB_SSLMODE" required:"true" validate:"oneof=disable require verify-ca verify-full"`
	MaxConns    int32  `envconfig:"DB_MAX_CONNS" required:"true" validate:"gt=0"`
	MinConns    int32  `envconfig:"DB_MIN_CONNS" required:"true" validate:"gt=0,ltefield=MaxConns"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	return validateStruct(c)
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Metrics backends.
const (
	MetricsMemory = "memory"
	MetricsRedis  = "redis"
)

// MetricsConfig selects where usage counters are kept.
type MetricsConfig struct {
	Backend       string `envconfig:"METRICS_BACKEND" default:"memory" validate:"oneof=memory redis"`
	RedisAddr     string `envconfig:"METRICS_REDIS_ADDR" validate:"required_if=Backend redis"`
	RedisPassword string `envconfig:"METRICS_REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"METRICS_REDIS_DB" default:"0" validate:"gte=0"`
	RedisKey      string `envconfig:"METRICS_REDIS_KEY" default:"tweets:metrics" validate:"required"`
}

// Validate validates the metrics configuration.
func (c *MetricsConfig) Validate() error {
	return validateStruct(c)
}

// AppConfig holds application-specific configuration.
type AppConfig struct {
	Environment    string `envconfig:"APP_ENV" required:"true" validate:"oneof=development staging production test"`
	LogLevel       string `envconfig:"LOG_LEVEL" required:"true" validate:"oneof=debug info warn error"`
	ServiceName    string `envconfig:"SERVICE_NAME" default:"tweets" validate:"required"`
	ServiceVersion string `envconfig:"SERVICE_VERSION" default:"dev"`
}

// Validate validates the app configuration.
func (c *AppConfig) Validate() error {
	return validateStruct(c)
}

// validateStruct runs the struct tags and reports every failing field in
// one error.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Load loads configuration from environment variables only.
// (Do .env loading in internal/app for dev, not here.)
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load Server config: %w", err)
	}
	if err := cfg.Server.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Server config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to load Database config: %w", err)
	}
	if err := cfg.Database.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Database config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Metrics); err != nil {
		return nil, fmt.Errorf("failed to load Metrics config: %w", err)
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Metrics config: %w", err)
	}

	if err := envconfig.Process("", &cfg.App); err != nil {
		return nil, fmt.Errorf("failed to load App config: %w", err)
	}
	if err := cfg.App.Validate(); err != nil {
		return nil, fmt.Errorf("invalid App config: %w", err)
	}

	return cfg, nil
}
