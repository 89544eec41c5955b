// Package config provides configuration management for the football prediction service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Engine     EngineConfig     `mapstructure:"engine" validate:"required"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Value      ValueConfig      `mapstructure:"value" validate:"required"`
	Strength   StrengthConfig   `mapstructure:"strength" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// EngineConfig holds the prediction engine's model constants and pool weights.
type EngineConfig struct {
	MaxGoals         int     `mapstructure:"max_goals" validate:"required,gt=0"`
	Rho              float64 `mapstructure:"rho"`
	BaseGoalRate     float64 `mapstructure:"base_goal_rate" validate:"required,gt=0"`
	LeagueStrength   float64 `mapstructure:"league_strength" validate:"gte=0"`
	AwayFactor       float64 `mapstructure:"away_factor" validate:"required,gt=0"`
	MinLambda        float64 `mapstructure:"min_lambda" validate:"required,gt=0"`
	ModelVersion     string  `mapstructure:"model_version" validate:"required"`
	PoissonWeight    float64 `mapstructure:"poisson_weight"`
	MarketWeight     float64 `mapstructure:"market_weight"`
	ClassifierWeight float64 `mapstructure:"classifier_weight"`
	DevigMethod      string  `mapstructure:"devig_method" validate:"required,devigmethod"`
	SelfCalibrate    bool    `mapstructure:"self_calibrate"`
}

// ClassifierConfig configures the optional match-outcome classifier. Either a
// local bundle file or a remote endpoint may be set; neither disables it.
type ClassifierConfig struct {
	BundlePath        string   `mapstructure:"bundle_path"`
	URL               string   `mapstructure:"url" validate:"omitempty,url"`
	APIKey            string   `mapstructure:"api_key"`
	ModelVersion      string   `mapstructure:"model_version"`
	FeatureColumns    []string `mapstructure:"feature_columns"`
	TimeoutSeconds    int      `mapstructure:"timeout_seconds" validate:"gte=0"`
	RetryAttempts     int      `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimit         float64  `mapstructure:"rate_limit" validate:"gte=0"`
	CircuitBreakerMax int      `mapstructure:"circuit_breaker_max" validate:"gte=0"`
	CacheTTLSeconds   int      `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize      int      `mapstructure:"cache_max_size" validate:"gte=0"`
}

// ValueConfig represents value-bet selection and staking configuration
type ValueConfig struct {
	MinExpectedValue float64 `mapstructure:"min_expected_value" validate:"gte=0"`
	KellyFraction    float64 `mapstructure:"kelly_fraction" validate:"gt=0,lte=1"`
	MaxStakeFraction float64 `mapstructure:"max_stake_fraction" validate:"gt=0"`
	Bankroll         float64 `mapstructure:"bankroll" validate:"gte=0"`
	MinOdds          float64 `mapstructure:"min_odds" validate:"gte=0"`
	MaxOdds          float64 `mapstructure:"max_odds" validate:"gte=0"`
}

// StrengthConfig controls the scheduled team-strength refit.
type StrengthConfig struct {
	Schedule     string `mapstructure:"schedule" validate:"required,cronspec"`
	LookbackDays int    `mapstructure:"lookback_days" validate:"gte=0"`
	Season       string `mapstructure:"season"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"gte=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"gte=0"`
}

// RedisConfig configures the value-bet stream publisher.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db" validate:"gte=0"`
	Stream    string `mapstructure:"stream"`
	MaxLength int64  `mapstructure:"max_length" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
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

// HasDatabase reports whether a database host is configured.
func (c *Config) HasDatabase() bool {
	return c.Database.Host != ""
}

// HasRedis reports whether a Redis address is configured.
func (c *Config) HasRedis() bool {
	return c.Redis.Addr != ""
}

// ClassifierTimeout returns the remote classifier request timeout.
func (c *Config) ClassifierTimeout() time.Duration {
	return time.Duration(c.Classifier.TimeoutSeconds) * time.Second
}

// ClassifierCacheTTL returns how long classifier vectors stay cached.
func (c *Config) ClassifierCacheTTL() time.Duration {
	return time.Duration(c.Classifier.CacheTTLSeconds) * time.Second
}

// StrengthLookback returns the refit history window; zero means all history.
func (c *Config) StrengthLookback() time.Duration {
	return time.Duration(c.Strength.LookbackDays) * 24 * time.Hour
}
