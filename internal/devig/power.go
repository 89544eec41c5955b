package devig

import (
	"fmt"
	"math"

	"github.com/yourusername/gfps/internal/odds"
)

const (
	powerLow        = 0.1
	powerHigh       = 5.0
	powerIterations = 30
)

// Power raises implied probabilities to Exponent before normalizing. A zero
// Exponent is solved from the prices with InferPowerForMargin.
type Power struct {
	Exponent float64
}

func (p Power) Remove(prices odds.Outcomes) (odds.Outcomes, error) {
	exponent := p.Exponent
	if exponent == 0 {
		inferred, err := InferPowerForMargin(prices)
		if err != nil {
			return nil, err
		}
		exponent = inferred
	}
	return PowerDevig(prices, exponent)
}

// PowerDevig applies a fixed exponent and renormalizes.
func PowerDevig(prices odds.Outcomes, exponent float64) (odds.Outcomes, error) {
	if !(exponent > 0) || math.IsInf(exponent, 0) {
		return nil, fmt.Errorf("power exponent must be positive, got %v", exponent)
	}
	implied, err := odds.DecimalToImplied(prices)
	if err != nil {
		return nil, err
	}
	adjusted := make(odds.Outcomes, len(implied))
	for i, e := range implied {
		adjusted[i] = odds.Outcome{Label: e.Label, Value: math.Pow(e.Value, exponent)}
	}
	return odds.NormalizeProbabilities(adjusted)
}

// InferPowerForMargin bisects over [0.1, 5.0] for the exponent k with
// sum(implied^k) = 1. The mass is decreasing in k because every implied
// probability is below one.
func InferPowerForMargin(prices odds.Outcomes) (float64, error) {
	implied, err := odds.DecimalToImplied(prices)
	if err != nil {
		return 0, err
	}
	if len(implied) == 0 {
		return 0, fmt.Errorf("%w: no prices", odds.ErrDegenerateProbability)
	}

	low, high := powerLow, powerHigh
	for i := 0; i < powerIterations; i++ {
		mid := (low + high) / 2
		if powerMass(implied, mid) > 1.0 {
			low = mid
		} else {
			high = mid
		}
	}
	return (low + high) / 2, nil
}

func powerMass(implied odds.Outcomes, exponent float64) float64 {
	total := 0.0
	for _, e := range implied {
		total += math.Pow(e.Value, exponent)
	}
	return total
}
