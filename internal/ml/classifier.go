// Package ml ingests the output of a pre-trained match-outcome classifier,
// either from a local model bundle or from a remote scoring service.
package ml

import (
	"context"
	"fmt"
	"math"

	"github.com/yourusername/gfps/internal/numeric"
)

// Feature names understood by the prediction engine.
const (
	FeatureHomeStrength = "home_strength"
	FeatureAwayStrength = "away_strength"
	FeatureFormDiff     = "form_diff"
	FeatureRestDiff     = "rest_diff"
	FeatureImpliedHome  = "implied_home"
	FeatureImpliedDraw  = "implied_draw"
	FeatureImpliedAway  = "implied_away"
)

// DefaultFeatureColumns is the column order used when a classifier does not
// declare its own.
var DefaultFeatureColumns = []string{
	FeatureHomeStrength,
	FeatureAwayStrength,
	FeatureFormDiff,
	FeatureRestDiff,
	FeatureImpliedHome,
	FeatureImpliedDraw,
	FeatureImpliedAway,
}

// Classifier produces a [home, draw, away] probability vector for a match.
type Classifier interface {
	PredictProba(ctx context.Context, features MatchFeatures) ([]float64, error)
	ModelVersion() string
}

// ColumnProvider is implemented by classifiers that expect a specific
// feature column order.
type ColumnProvider interface {
	FeatureColumns() []string
}

// MatchFeatures holds named numeric features for one fixture.
type MatchFeatures map[string]float64

// Vector aligns the features to columns. Missing features are zero.
func (f MatchFeatures) Vector(columns []string) []float64 {
	if len(columns) == 0 {
		columns = DefaultFeatureColumns
	}
	out := make([]float64, len(columns))
	for i, c := range columns {
		out[i] = f[c]
	}
	return out
}

// columnsOf returns the classifier's declared columns, or the defaults.
func columnsOf(c Classifier) []string {
	if cp, ok := c.(ColumnProvider); ok {
		if cols := cp.FeatureColumns(); len(cols) > 0 {
			return cols
		}
	}
	return DefaultFeatureColumns
}

// checkPrediction validates a classifier vector and renormalizes it.
func checkPrediction(probs []float64, classes int) ([]float64, error) {
	if len(probs) != classes {
		return nil, fmt.Errorf("%w: got %d probabilities, want %d", ErrInvalidPrediction, len(probs), classes)
	}
	for i, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return nil, fmt.Errorf("%w: probability %d is %v", ErrInvalidPrediction, i, p)
		}
	}
	out, err := numeric.Normalize(probs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
	}
	return out, nil
}
