package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "config/config.yaml"
	envPrefix         = "GFPS"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	SetDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gfps")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("engine.max_goals", 10)
	v.SetDefault("engine.rho", 0.0)
	v.SetDefault("engine.base_goal_rate", 1.35)
	v.SetDefault("engine.league_strength", 0.1)
	v.SetDefault("engine.away_factor", 0.85)
	v.SetDefault("engine.min_lambda", 0.1)
	v.SetDefault("engine.model_version", "ens_v2.0")
	v.SetDefault("engine.poisson_weight", 0.5)
	v.SetDefault("engine.market_weight", 0.5)
	v.SetDefault("engine.classifier_weight", 0.4)
	v.SetDefault("engine.devig_method", "overround")
	v.SetDefault("engine.self_calibrate", true)

	v.SetDefault("classifier.timeout_seconds", 5)
	v.SetDefault("classifier.retry_attempts", 3)
	v.SetDefault("classifier.rate_limit", 10.0)
	v.SetDefault("classifier.circuit_breaker_max", 5)
	v.SetDefault("classifier.cache_ttl_seconds", 300)
	v.SetDefault("classifier.cache_max_size", 10000)

	v.SetDefault("value.min_expected_value", 0.05)
	v.SetDefault("value.kelly_fraction", 0.5)
	v.SetDefault("value.max_stake_fraction", 0.05)
	v.SetDefault("value.min_odds", 1.01)

	v.SetDefault("strength.schedule", "0 4 * * *")
	v.SetDefault("strength.lookback_days", 365)
	v.SetDefault("strength.season", "2024")

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	v.SetDefault("redis.stream", "value_bets.detected")
	v.SetDefault("redis.max_length", 10000)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
