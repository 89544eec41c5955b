// Package consensus blends several bookmakers' prices for the same market
// into one fair distribution.
package consensus

import (
	"fmt"
	"math"

	"github.com/yourusername/gfps/internal/devig"
	"github.com/yourusername/gfps/internal/odds"
)

// BookmakerLine is one bookmaker's prices for a market. Weight is clamped to >= 0.
type BookmakerLine struct {
	Name   string        `json:"name"`
	Odds   odds.Outcomes `json:"odds"`
	Weight float64       `json:"weight"`
}

// NewBookmakerLine returns a line with the default weight of 1.
func NewBookmakerLine(name string, prices odds.Outcomes) BookmakerLine {
	return BookmakerLine{Name: name, Odds: prices, Weight: 1.0}
}

// Aggregator computes weighted consensus distributions. The zero value
// devigs each line by overround scaling.
type Aggregator struct {
	Remover devig.Remover
}

func (a Aggregator) remover() devig.Remover {
	if a.Remover == nil {
		return devig.Overround{}
	}
	return a.Remover
}

// Probabilities weight-averages each line's fair probabilities. Outcomes are
// ordered by first appearance. No lines yields an empty result; lines whose
// weights are all zero carry no mass and are rejected.
func (a Aggregator) Probabilities(lines []BookmakerLine) (odds.Outcomes, error) {
	if len(lines) == 0 {
		return odds.Outcomes{}, nil
	}

	fairs := make([]odds.Outcomes, len(lines))
	weights := make([]float64, len(lines))
	totalWeight := 0.0
	for i, line := range lines {
		fair, err := a.remover().Remove(line.Odds)
		if err != nil {
			return nil, err
		}
		fairs[i] = fair
		weights[i] = math.Max(line.Weight, 0)
		totalWeight += weights[i]
	}
	if totalWeight == 0 {
		return nil, fmt.Errorf("%w: %d lines with zero total weight", odds.ErrDegenerateProbability, len(lines))
	}

	var order []string
	totals := map[string]float64{}
	for i, fair := range fairs {
		for _, e := range fair {
			if _, seen := totals[e.Label]; !seen {
				order = append(order, e.Label)
			}
			totals[e.Label] += weights[i] * e.Value
		}
	}

	averaged := make(odds.Outcomes, len(order))
	for i, label := range order {
		averaged[i] = odds.Outcome{Label: label, Value: totals[label] / totalWeight}
	}
	return odds.NormalizeProbabilities(averaged)
}

// WeightedBySharpness reruns Probabilities with entropy-derived weights.
func (a Aggregator) WeightedBySharpness(lines []BookmakerLine) (odds.Outcomes, error) {
	weighted := make([]BookmakerLine, len(lines))
	for i, line := range lines {
		w, err := MarketEntropyWeight(line)
		if err != nil {
			return nil, err
		}
		weighted[i] = BookmakerLine{Name: line.Name, Odds: line.Odds, Weight: w}
	}
	return a.Probabilities(weighted)
}

// MarketEntropyWeight is 1 - H/log(n): sharper lines score closer to one.
// A line with fewer than two outcomes has nothing to spread over and scores 1.
func MarketEntropyWeight(line BookmakerLine) (float64, error) {
	implied, err := odds.DecimalToImplied(line.Odds)
	if err != nil {
		return 0, err
	}
	if len(implied) < 2 {
		return 1.0, nil
	}
	h, err := odds.MarketEntropy(implied)
	if err != nil {
		return 0, err
	}
	return 1.0 - h/math.Log(float64(len(implied))), nil
}

// Probabilities aggregates with overround devigging.
func Probabilities(lines []BookmakerLine) (odds.Outcomes, error) {
	return Aggregator{}.Probabilities(lines)
}

// WeightedBySharpness aggregates with entropy weights and overround devigging.
func WeightedBySharpness(lines []BookmakerLine) (odds.Outcomes, error) {
	return Aggregator{}.WeightedBySharpness(lines)
}
