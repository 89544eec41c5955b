package devig

import (
	"fmt"
	"math"

	"github.com/yourusername/gfps/internal/odds"
)

const (
	shinZLow       = 0.0
	shinZHigh      = 0.25
	shinIterations = 40
)

// Shin removes margin under Shin's insider-trading model, which loads more of
// the margin onto short-priced outcomes than proportional scaling does.
type Shin struct{}

func (Shin) Remove(prices odds.Outcomes) (odds.Outcomes, error) {
	return ShinProbabilities(prices)
}

// SolveShinZ bisects the insider share z over [0, 0.25]. At each midpoint the
// estimated mass sum(sqrt(p+z)-z)/sum(sqrt(p+z)) is compared with one.
func SolveShinZ(implied []float64) float64 {
	low, high := shinZLow, shinZHigh
	for i := 0; i < shinIterations; i++ {
		mid := (low + high) / 2
		if shinMass(implied, mid) > 1.0 {
			low = mid
		} else {
			high = mid
		}
	}
	return (low + high) / 2
}

// ShinResidual is |estimated mass - 1| at z.
func ShinResidual(implied []float64, z float64) float64 {
	return math.Abs(shinMass(implied, z) - 1.0)
}

func shinMass(implied []float64, z float64) float64 {
	denom := 0.0
	for _, p := range implied {
		denom += math.Sqrt(p + z)
	}
	est := 0.0
	for _, p := range implied {
		est += math.Sqrt(p+z) - z
	}
	return est / denom
}

// ShinProbabilities returns Shin-adjusted fair probabilities.
func ShinProbabilities(prices odds.Outcomes) (odds.Outcomes, error) {
	implied, err := odds.DecimalToImplied(prices)
	if err != nil {
		return nil, err
	}
	if len(implied) == 0 {
		return nil, fmt.Errorf("%w: no prices", odds.ErrDegenerateProbability)
	}

	values := implied.Values()
	z := SolveShinZ(values)

	denom := 0.0
	for _, p := range values {
		denom += math.Sqrt(p + z)
	}
	fair := make(odds.Outcomes, len(implied))
	for i, e := range implied {
		fair[i] = odds.Outcome{Label: e.Label, Value: (math.Sqrt(e.Value+z) - z) / denom}
	}
	return odds.NormalizeProbabilities(fair)
}
