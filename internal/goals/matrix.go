// Package goals implements scoreline models for football matches: independent
// Poisson, Dixon-Coles, bivariate Poisson and Skellam, plus the markets that
// can be read off a score matrix.
package goals

import (
	"fmt"
	"math"

	"github.com/yourusername/gfps/internal/odds"
)

// DefaultMaxGoals truncates every goal count at ten.
const DefaultMaxGoals = 10

// minMass is the smallest matrix total that is still renormalized.
const minMass = 1e-12

// ScoreMatrix holds joint scoreline probabilities: rows are home goals,
// columns away goals, both 0..N.
type ScoreMatrix [][]float64

func newMatrix(maxGoals int) ScoreMatrix {
	m := make(ScoreMatrix, maxGoals+1)
	for i := range m {
		m[i] = make([]float64, maxGoals+1)
	}
	return m
}

// Total returns the sum of all cells.
func (m ScoreMatrix) Total() float64 {
	total := 0.0
	for _, row := range m {
		for _, p := range row {
			total += p
		}
	}
	return total
}

// Renormalize scales m in place to unit mass. Negative or NaN cells and
// near-zero or non-finite mass are rejected.
func Renormalize(m ScoreMatrix) error {
	for i, row := range m {
		for j, p := range row {
			if p < 0 || math.IsNaN(p) {
				return fmt.Errorf("%w: score %d-%d has probability %v", odds.ErrDegenerateProbability, i, j, p)
			}
		}
	}
	total := m.Total()
	if !(total > minMass) || math.IsInf(total, 0) {
		return fmt.Errorf("%w: score matrix mass %v", odds.ErrDegenerateProbability, total)
	}
	for _, row := range m {
		for j := range row {
			row[j] /= total
		}
	}
	return nil
}

// OneXTwo is a home/draw/away probability triple.
type OneXTwo struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Vector returns the triple ordered [home, draw, away].
func (p OneXTwo) Vector() []float64 {
	return []float64{p.Home, p.Draw, p.Away}
}

// Outcomes returns the triple as labelled outcomes.
func (p OneXTwo) Outcomes() odds.Outcomes {
	return odds.Outcomes{{Label: "home", Value: p.Home}, {Label: "draw", Value: p.Draw}, {Label: "away", Value: p.Away}}
}

// OneXTwo sums home wins (home goals > away goals), draws (the diagonal) and
// away wins, renormalized by their total.
func (m ScoreMatrix) OneXTwo() (OneXTwo, error) {
	var out OneXTwo
	for i, row := range m {
		for j, p := range row {
			switch {
			case i > j:
				out.Home += p
			case i == j:
				out.Draw += p
			default:
				out.Away += p
			}
		}
	}
	total := out.Home + out.Draw + out.Away
	if !(total > minMass) {
		return OneXTwo{}, fmt.Errorf("%w: 1X2 mass %v", odds.ErrDegenerateProbability, total)
	}
	return OneXTwo{Home: out.Home / total, Draw: out.Draw / total, Away: out.Away / total}, nil
}

// OverUnder splits the mass at a half-goal line such as 2.5.
func (m ScoreMatrix) OverUnder(line float64) (over, under float64) {
	for i, row := range m {
		for j, p := range row {
			if float64(i+j) > line {
				over += p
			} else {
				under += p
			}
		}
	}
	return over, under
}

// BothTeamsToScore returns P(both score) and its complement.
func (m ScoreMatrix) BothTeamsToScore() (yes, no float64) {
	for i, row := range m {
		for j, p := range row {
			if i > 0 && j > 0 {
				yes += p
			} else {
				no += p
			}
		}
	}
	return yes, no
}

// CorrectScore returns the probability of one scoreline, 0 beyond truncation.
func (m ScoreMatrix) CorrectScore(home, away int) float64 {
	if home < 0 || away < 0 || home >= len(m) || away >= len(m[home]) {
		return 0
	}
	return m[home][away]
}

// ExpectedGoals returns the mean home and away goals under m.
func (m ScoreMatrix) ExpectedGoals() (home, away float64) {
	for i, row := range m {
		for j, p := range row {
			home += float64(i) * p
			away += float64(j) * p
		}
	}
	return home, away
}
