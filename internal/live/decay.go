package live

import (
	"fmt"
	"math"
)

// DefaultHalfLife is the draw-drift half-life in minutes.
const DefaultHalfLife = 30.0

// RegulationMinutes is the length of a match without stoppage time.
const RegulationMinutes = 90.0

// ExponentialDecay returns 2^(-elapsed/halfLife).
func ExponentialDecay(elapsedMinutes, halfLife float64) (float64, error) {
	if !(halfLife > 0) {
		return 0, fmt.Errorf("half-life must be positive, got %v", halfLife)
	}
	return math.Exp(-math.Ln2 * elapsedMinutes / halfLife), nil
}

// LinearDecay returns the share of totalMinutes still to play, floored at 0.
func LinearDecay(elapsedMinutes, totalMinutes float64) (float64, error) {
	if !(totalMinutes > 0) {
		return 0, fmt.Errorf("total minutes must be positive, got %v", totalMinutes)
	}
	return math.Max(totalMinutes-elapsedMinutes, 0) / totalMinutes, nil
}
