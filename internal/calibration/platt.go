package calibration

import (
	"fmt"

	"github.com/yourusername/gfps/internal/numeric"
)

// plattL2 matches an inverse regularization strength of 1.
const plattL2 = 1.0

// PlattScaler fits one logistic regression per class (one-vs-rest) using
// every raw score as a feature.
type PlattScaler struct {
	models []*numeric.BinaryLogit
}

// FitPlatt trains the per-class models.
func FitPlatt(scores [][]float64, labels []int) (*PlattScaler, error) {
	classes, err := checkFitInput(scores, labels)
	if err != nil {
		return nil, err
	}
	models := make([]*numeric.BinaryLogit, classes)
	for k := 0; k < classes; k++ {
		target := make([]bool, len(labels))
		for i, label := range labels {
			target[i] = label == k
		}
		if models[k], err = numeric.FitBinaryLogit(scores, target, plattL2); err != nil {
			return nil, fmt.Errorf("class %d: %w", k, err)
		}
	}
	return &PlattScaler{models: models}, nil
}

// Transform returns the per-class sigmoid outputs normalized across classes.
func (p *PlattScaler) Transform(scores [][]float64) ([][]float64, error) {
	if err := checkWidth(scores, len(p.models)); err != nil {
		return nil, err
	}
	out := make([][]float64, len(scores))
	for i, row := range scores {
		raw := make([]float64, len(p.models))
		for k, m := range p.models {
			raw[k] = m.Predict(row)
		}
		normalized, err := numeric.Normalize(raw)
		if err != nil {
			return nil, err
		}
		out[i] = normalized
	}
	return out, nil
}
