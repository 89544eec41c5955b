package odds

import (
	"fmt"
	"math"
)

// Quote is a single outcome's decimal price.
type Quote struct {
	Outcome     string
	DecimalOdds float64
}

// ImpliedProbability returns the naive 1/price probability, margin included.
func (q Quote) ImpliedProbability() (float64, error) {
	if !validPrice(q.DecimalOdds) {
		return 0, fmt.Errorf("%w: %s priced at %v, decimal odds must exceed 1.0", ErrInvalidOdds, q.Outcome, q.DecimalOdds)
	}
	return 1.0 / q.DecimalOdds, nil
}

func validPrice(price float64) bool {
	return price > 1.0 && !math.IsInf(price, 0)
}

// DecimalToImplied converts decimal prices into unnormalized implied probabilities.
func DecimalToImplied(prices Outcomes) (Outcomes, error) {
	out := make(Outcomes, len(prices))
	for i, e := range prices {
		p, err := Quote{Outcome: e.Label, DecimalOdds: e.Value}.ImpliedProbability()
		if err != nil {
			return nil, err
		}
		out[i] = Outcome{Label: e.Label, Value: p}
	}
	return out, nil
}

// AmericanToDecimal converts a moneyline price (+200, -150) into decimal odds.
func AmericanToDecimal(price float64) (float64, error) {
	switch {
	case price == 0 || math.IsNaN(price) || math.IsInf(price, 0):
		return 0, fmt.Errorf("%w: american odds %v", ErrInvalidOdds, price)
	case price > 0:
		return 1.0 + price/100.0, nil
	default:
		return 1.0 + 100.0/math.Abs(price), nil
	}
}

// FractionalToDecimal converts numerator/denominator odds (5/2) into decimal odds.
func FractionalToDecimal(numerator, denominator float64) (float64, error) {
	if denominator <= 0 || math.IsNaN(numerator) || math.IsInf(numerator, 0) {
		return 0, fmt.Errorf("%w: fractional odds %v/%v", ErrInvalidOdds, numerator, denominator)
	}
	return 1.0 + numerator/denominator, nil
}

// ImpliedFromAmerican converts moneyline prices straight to implied probabilities.
func ImpliedFromAmerican(prices Outcomes) (Outcomes, error) {
	decimals := make(Outcomes, len(prices))
	for i, e := range prices {
		d, err := AmericanToDecimal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Label, err)
		}
		decimals[i] = Outcome{Label: e.Label, Value: d}
	}
	return DecimalToImplied(decimals)
}

// Fraction is a fractional quote such as 5/2.
type Fraction struct {
	Numerator   float64
	Denominator float64
}

// ImpliedFromFractional converts labelled fractional quotes to implied
// probabilities, preserving the order of labels.
func ImpliedFromFractional(labels []string, quotes []Fraction) (Outcomes, error) {
	if len(labels) != len(quotes) {
		return nil, fmt.Errorf("%w: %d labels, %d quotes", ErrDimensionMismatch, len(labels), len(quotes))
	}
	decimals := make(Outcomes, len(quotes))
	for i, q := range quotes {
		d, err := FractionalToDecimal(q.Numerator, q.Denominator)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", labels[i], err)
		}
		decimals[i] = Outcome{Label: labels[i], Value: d}
	}
	return DecimalToImplied(decimals)
}

// NormalizeProbabilities rescales probs to sum to exactly one. A non-positive
// total or any negative entry is rejected rather than silently clamped.
func NormalizeProbabilities(probs Outcomes) (Outcomes, error) {
	total := probs.Sum()
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: total mass %v", ErrDegenerateProbability, total)
	}
	out := make(Outcomes, len(probs))
	for i, e := range probs {
		if e.Value < 0 || math.IsNaN(e.Value) {
			return nil, fmt.Errorf("%w: %s has probability %v", ErrDegenerateProbability, e.Label, e.Value)
		}
		out[i] = Outcome{Label: e.Label, Value: e.Value / total}
	}
	return out, nil
}

// MarketEntropy returns the Shannon entropy (natural log) of the normalized
// distribution. Zero-probability outcomes contribute nothing.
func MarketEntropy(probs Outcomes) (float64, error) {
	normalized, err := NormalizeProbabilities(probs)
	if err != nil {
		return 0, err
	}
	h := 0.0
	for _, e := range normalized {
		if e.Value > 0 {
			h -= e.Value * math.Log(e.Value)
		}
	}
	return h, nil
}

// PriceSpread returns the gap between the longest and shortest price, or 0
// for no quotes.
func PriceSpread(quotes []Quote) float64 {
	if len(quotes) == 0 {
		return 0
	}
	lo, hi := quotes[0].DecimalOdds, quotes[0].DecimalOdds
	for _, q := range quotes[1:] {
		lo = math.Min(lo, q.DecimalOdds)
		hi = math.Max(hi, q.DecimalOdds)
	}
	return hi - lo
}
