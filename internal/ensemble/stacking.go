package ensemble

import (
	"fmt"

	"github.com/yourusername/gfps/internal/numeric"
	"github.com/yourusername/gfps/internal/odds"
)

// stackingL2 matches an inverse regularization strength of 1.
const stackingL2 = 1.0

// StackingEnsemble is a multinomial logistic meta-model trained on the
// concatenated outputs of several base models.
type StackingEnsemble struct {
	meta *numeric.MultinomialLogit
}

// FitStacking trains the meta-model. baseOutputs holds one n-by-k matrix per
// base model; labels are class indices.
func FitStacking(baseOutputs [][][]float64, labels []int, classes int) (*StackingEnsemble, error) {
	x, err := hstack(baseOutputs)
	if err != nil {
		return nil, err
	}
	meta, err := numeric.FitMultinomialLogit(x, labels, classes, stackingL2)
	if err != nil {
		return nil, fmt.Errorf("failed to fit stacking meta-model: %w", err)
	}
	return &StackingEnsemble{meta: meta}, nil
}

// Predict returns row-normalized class probabilities.
func (s *StackingEnsemble) Predict(baseOutputs [][][]float64) ([][]float64, error) {
	x, err := hstack(baseOutputs)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		p, err := s.meta.PredictProba(row)
		if err != nil {
			return nil, err
		}
		if out[i], err = numeric.Normalize(p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func hstack(blocks [][][]float64) ([][]float64, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: no base model outputs", odds.ErrDimensionMismatch)
	}
	rows := len(blocks[0])
	for m, block := range blocks {
		if len(block) != rows {
			return nil, fmt.Errorf("%w: model %d has %d rows, want %d", odds.ErrDimensionMismatch, m, len(block), rows)
		}
		if _, err := numeric.CheckMatrix(block); err != nil {
			return nil, fmt.Errorf("model %d: %w", m, err)
		}
	}
	out := make([][]float64, rows)
	for i := range out {
		for _, block := range blocks {
			out[i] = append(out[i], block[i]...)
		}
	}
	return out, nil
}
