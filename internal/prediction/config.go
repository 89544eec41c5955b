package prediction

import (
	"github.com/yourusername/gfps/internal/devig"
	"github.com/yourusername/gfps/internal/ensemble"
	"github.com/yourusername/gfps/internal/goals"
	"github.com/yourusername/gfps/internal/strength"
)

// DefaultModelVersion tags outputs of the ensemble engine.
const DefaultModelVersion = "ens_v2.0"

// Config tunes the prediction engine.
type Config struct {
	MaxGoals       int
	Rho            float64
	BaseGoalRate   float64
	LeagueStrength float64
	AwayFactor     float64
	MinLambda      float64
	ModelVersion   string

	PoissonWeight    float64
	MarketWeight     float64
	ClassifierWeight float64

	// DevigMethod devigs each line when the market view is built from
	// several bookmaker lines.
	DevigMethod devig.Method

	// SelfCalibrate fits a temperature against the pooled arg-max when no
	// calibrator is injected. When false such outputs are left uncalibrated.
	SelfCalibrate bool
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxGoals:         goals.DefaultMaxGoals,
		Rho:              0,
		BaseGoalRate:     1.35,
		LeagueStrength:   strength.DefaultLeagueStrength,
		AwayFactor:       0.85,
		MinLambda:        0.1,
		ModelVersion:     DefaultModelVersion,
		PoissonWeight:    ensemble.PoissonWeight,
		MarketWeight:     ensemble.MarketWeight,
		ClassifierWeight: ensemble.ClassifierWeight,
		DevigMethod:      devig.MethodOverround,
		SelfCalibrate:    true,
	}
}

// withDefaults fills zero values that have no meaningful zero.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxGoals <= 0 {
		c.MaxGoals = d.MaxGoals
	}
	if c.BaseGoalRate <= 0 {
		c.BaseGoalRate = d.BaseGoalRate
	}
	if c.LeagueStrength <= 0 {
		c.LeagueStrength = d.LeagueStrength
	}
	if c.AwayFactor <= 0 {
		c.AwayFactor = d.AwayFactor
	}
	if c.MinLambda <= 0 {
		c.MinLambda = d.MinLambda
	}
	if c.ModelVersion == "" {
		c.ModelVersion = d.ModelVersion
	}
	return c
}
