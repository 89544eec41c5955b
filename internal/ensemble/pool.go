// Package ensemble combines probability distributions from several views of
// the same match.
package ensemble

import (
	"errors"
	"fmt"

	"github.com/yourusername/gfps/internal/numeric"
	"github.com/yourusername/gfps/internal/odds"
)

// ErrNegativeWeight indicates a pooling weight below zero.
var ErrNegativeWeight = errors.New("negative pooling weight")

// Default view weights.
const (
	MarketWeight     = 0.5
	PoissonWeight    = 0.5
	ClassifierWeight = 0.4
)

// DefaultWeights returns the view weights for [poisson, market] or
// [poisson, market, classifier], normalized to sum to one.
func DefaultWeights(hasClassifier bool) []float64 {
	w := []float64{PoissonWeight, MarketWeight}
	if hasClassifier {
		w = append(w, ClassifierWeight)
	}
	total := 0.0
	for _, v := range w {
		total += v
	}
	for i := range w {
		w[i] /= total
	}
	return w
}

// LinearPool returns the weighted average of distributions. Weights are
// normalized; if they sum to zero every distribution counts equally.
func LinearPool(distributions [][]float64, weights []float64) ([]float64, error) {
	if len(distributions) != len(weights) {
		return nil, fmt.Errorf("%w: %d distributions, %d weights", odds.ErrDimensionMismatch, len(distributions), len(weights))
	}
	width, err := numeric.CheckMatrix(distributions)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: weight %d is %v", ErrNegativeWeight, i, w)
		}
		total += w
	}
	w := make([]float64, len(weights))
	for i := range weights {
		if total > 0 {
			w[i] = weights[i] / total
		} else {
			w[i] = 1.0 / float64(len(weights))
		}
	}

	pooled := make([]float64, width)
	for i, dist := range distributions {
		for j, p := range dist {
			pooled[j] += w[i] * p
		}
	}
	return numeric.Normalize(pooled)
}
