package config

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// MaxGoalsLimit bounds the score-matrix truncation.
const MaxGoalsLimit = 30

// MaxAbsRho bounds the Dixon-Coles correlation. Within it every corner
// multiplier stays non-negative for expected goals up to 2 per side.
const MaxAbsRho = 0.25

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("devigmethod", validateDevigMethod)
	_ = v.RegisterValidation("cronspec", validateCronSpec)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateDevigMethod(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "overround", "power", "shin":
		return true
	default:
		return false
	}
}

func validateCronSpec(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	e := cfg.Engine
	if e.MaxGoals < 1 || e.MaxGoals > MaxGoalsLimit {
		return fmt.Errorf("engine.max_goals must be between 1 and %d", MaxGoalsLimit)
	}
	if math.IsNaN(e.Rho) || math.Abs(e.Rho) > MaxAbsRho {
		return fmt.Errorf("engine.rho must be within [-%v, %v]", MaxAbsRho, MaxAbsRho)
	}
	if e.PoissonWeight < 0 || e.MarketWeight < 0 || e.ClassifierWeight < 0 {
		return fmt.Errorf("engine pool weights must be non-negative")
	}
	if e.PoissonWeight+e.MarketWeight == 0 {
		return fmt.Errorf("engine.poisson_weight and engine.market_weight cannot both be zero")
	}

	if cfg.Value.MaxStakeFraction > 1 {
		return fmt.Errorf("value.max_stake_fraction cannot exceed 1")
	}
	if cfg.Value.MaxOdds > 0 && cfg.Value.MinOdds > cfg.Value.MaxOdds {
		return fmt.Errorf("value.min_odds cannot exceed value.max_odds")
	}

	if cfg.Classifier.BundlePath != "" && cfg.Classifier.URL != "" {
		return fmt.Errorf("classifier.bundle_path and classifier.url are mutually exclusive")
	}

	if cfg.HasDatabase() {
		if cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("database name and user are required when database.host is set")
		}
		if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
			return fmt.Errorf("max_idle_connections cannot exceed max_connections")
		}
	}

	if cfg.IsProduction() && cfg.HasDatabase() && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "url":
			fmt.Fprintf(&b, "- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "devigmethod":
			fmt.Fprintf(&b, "- Field '%s' must be one of: overround, power, shin\n", field)
		case "cronspec":
			fmt.Fprintf(&b, "- Field '%s' must be a standard cron expression, got '%v'\n", field, value)
		case "oneof":
			fmt.Fprintf(&b, "- Field '%s' has invalid value '%v'\n", field, value)
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		if cfg.HasDatabase() && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
		}
		if cfg.Classifier.URL != "" && isTestCredential(cfg.Classifier.APIKey) {
			return fmt.Errorf("production environment should not use a test classifier API key")
		}
	}
	return nil
}

var testCredentialPattern = regexp.MustCompile(`(?i)test|demo|example|placeholder|YOUR_`)

func isTestCredential(credential string) bool {
	return testCredentialPattern.MatchString(credential)
}
