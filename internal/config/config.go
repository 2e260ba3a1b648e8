// Package config provides configuration management for the Courtside application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	ModelService ModelServiceConfig `mapstructure:"model_service" validate:"required"`
	Pipeline     PipelineConfig     `mapstructure:"pipeline" validate:"required"`
	Ingestion    IngestionConfig    `mapstructure:"ingestion" validate:"required"`
	Metrics      MetricsConfig      `mapstructure:"metrics" validate:"required"`
	Features     FeaturesConfig     `mapstructure:"features"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// ModelServiceConfig represents the scoring model server configuration
type ModelServiceConfig struct {
	URL                   string `mapstructure:"url" validate:"required,url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	RetryAttempts         int    `mapstructure:"retry_attempts" validate:"gte=0"`
	CacheTTLSeconds       int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// PipelineConfig represents prediction pipeline tuning
type PipelineConfig struct {
	Windows           []int   `mapstructure:"windows" validate:"required,min=1,windows"`
	MinHistoryRows    int     `mapstructure:"min_history_rows" validate:"required,gt=0"`
	DefaultTotal      float64 `mapstructure:"default_total" validate:"required,gt=0"`
	DefaultSpread     float64 `mapstructure:"default_spread"`
	LookaheadHours    int     `mapstructure:"lookahead_hours" validate:"required,gt=0"`
	HistoryCutoffDays int     `mapstructure:"history_cutoff_days" validate:"gte=0"`
}

// IngestionConfig represents stats feed ingestion configuration
type IngestionConfig struct {
	BaseURL                 string `mapstructure:"base_url" validate:"required,url"`
	APIKey                  string `mapstructure:"api_key"`
	RequestsPerSecond       int    `mapstructure:"requests_per_second" validate:"required,gt=0"`
	RetryAttempts           int    `mapstructure:"retry_attempts" validate:"gte=0"`
	BackfillDays            int    `mapstructure:"backfill_days" validate:"gte=0"`
	LookaheadDays           int    `mapstructure:"lookahead_days" validate:"gte=0"`
	ScheduleSpec            string `mapstructure:"schedule_spec"`
	GradeScheduleSpec       string `mapstructure:"grade_schedule_spec"`
	CircuitBreakerThreshold int    `mapstructure:"circuit_breaker_threshold" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	TotalsEnabled      bool `mapstructure:"totals_enabled"`
	ForceRepickEnabled bool `mapstructure:"force_repick_enabled"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ModelRequestTimeout returns the scoring request timeout as a duration
func (c *Config) ModelRequestTimeout() time.Duration {
	return time.Duration(c.ModelService.RequestTimeoutSeconds) * time.Second
}

// Lookahead returns the fixture lookahead window as a duration
func (c *Config) Lookahead() time.Duration {
	return time.Duration(c.Pipeline.LookaheadHours) * time.Hour
}
