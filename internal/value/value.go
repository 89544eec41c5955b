// Package value turns model probabilities and bookmaker prices into betting
// value: edge, expected value and Kelly stakes.
package value

import (
	"fmt"
	"math"

	"github.com/yourusername/gfps/internal/odds"
)

func checkProbability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: %s = %v, must lie in [0, 1]", odds.ErrInvalidProbability, name, p)
	}
	return nil
}

func checkOdds(price float64) error {
	if !(price > 1.0) || math.IsInf(price, 0) {
		return fmt.Errorf("%w: %v, decimal odds must exceed 1.0", odds.ErrInvalidOdds, price)
	}
	return nil
}

// Edge is the model probability minus the market probability.
func Edge(prob, marketProb float64) (float64, error) {
	if err := checkProbability("prob", prob); err != nil {
		return 0, err
	}
	if err := checkProbability("market_prob", marketProb); err != nil {
		return 0, err
	}
	return prob - marketProb, nil
}

// ExpectedValue is the expected profit per unit stake at decimal odds.
func ExpectedValue(prob, decimalOdds float64) (float64, error) {
	if err := checkProbability("prob", prob); err != nil {
		return 0, err
	}
	if err := checkOdds(decimalOdds); err != nil {
		return 0, err
	}
	return prob*(decimalOdds-1) - (1 - prob), nil
}

// KellyFraction is the growth-optimal bankroll share, floored at zero.
func KellyFraction(prob, decimalOdds float64) (float64, error) {
	if err := checkOdds(decimalOdds); err != nil {
		return 0, err
	}
	if err := checkProbability("prob", prob); err != nil {
		return 0, err
	}
	b := decimalOdds - 1
	return math.Max(0, (prob*decimalOdds-1)/b), nil
}

// FractionalKelly scales the Kelly fraction, e.g. 0.5 for half Kelly.
func FractionalKelly(prob, decimalOdds, fraction float64) (float64, error) {
	if fraction < 0 || math.IsNaN(fraction) {
		return 0, fmt.Errorf("kelly fraction multiplier must be non-negative, got %v", fraction)
	}
	k, err := KellyFraction(prob, decimalOdds)
	if err != nil {
		return 0, err
	}
	return k * fraction, nil
}

// paired calls fn for every label of probs that also has a price, in probs order.
func paired(probs, other odds.Outcomes, fn func(label string, p, v float64) (float64, error)) (odds.Outcomes, error) {
	out := odds.Outcomes{}
	for _, e := range probs {
		v, ok := other.Get(e.Label)
		if !ok {
			continue
		}
		r, err := fn(e.Label, e.Value, v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Label, err)
		}
		out = append(out, odds.Outcome{Label: e.Label, Value: r})
	}
	return out, nil
}

// Edges computes Edge for every outcome present in both maps.
func Edges(probs, marketProbs odds.Outcomes) (odds.Outcomes, error) {
	return paired(probs, marketProbs, func(_ string, p, m float64) (float64, error) { return Edge(p, m) })
}

// PortfolioEV computes ExpectedValue for every priced outcome.
func PortfolioEV(probs, prices odds.Outcomes) (odds.Outcomes, error) {
	return paired(probs, prices, func(_ string, p, o float64) (float64, error) { return ExpectedValue(p, o) })
}

// PortfolioKelly computes FractionalKelly for every priced outcome.
func PortfolioKelly(probs, prices odds.Outcomes, fraction float64) (odds.Outcomes, error) {
	return paired(probs, prices, func(_ string, p, o float64) (float64, error) { return FractionalKelly(p, o, fraction) })
}

// ApplyThreshold keeps entries whose value is at least minEV.
func ApplyThreshold(values odds.Outcomes, minEV float64) odds.Outcomes {
	out := odds.Outcomes{}
	for _, e := range values {
		if e.Value >= minEV {
			out = append(out, e)
		}
	}
	return out
}

// CapStake limits every stake to cap.
func CapStake(stakes odds.Outcomes, cap float64) odds.Outcomes {
	out := make(odds.Outcomes, len(stakes))
	for i, e := range stakes {
		out[i] = odds.Outcome{Label: e.Label, Value: math.Min(e.Value, cap)}
	}
	return out
}
