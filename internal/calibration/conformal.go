package calibration

import (
	"fmt"
	"math"
	"sort"
)

// ConformalPredictor turns calibrated probabilities into prediction sets
// that contain the true class with probability at least 1 - Alpha.
type ConformalPredictor struct {
	Alpha     float64 `json:"alpha"`
	Threshold float64 `json:"threshold"`
}

// FitConformal calibrates the inclusion threshold on held-out rows. The
// nonconformity score of a row is 1 minus the probability of its true class;
// the threshold is 1 minus the ceil((n+1)(1-alpha))-th smallest score.
func FitConformal(probs [][]float64, labels []int, alpha float64) (*ConformalPredictor, error) {
	if _, err := checkFitInput(probs, labels); err != nil {
		return nil, err
	}
	if !(alpha > 0 && alpha < 1) {
		return nil, fmt.Errorf("alpha must lie in (0, 1), got %v", alpha)
	}

	scores := make([]float64, len(probs))
	for i, row := range probs {
		scores[i] = 1 - row[labels[i]]
	}
	sort.Float64s(scores)
	n := len(scores)
	rank := min(n, int(math.Ceil(float64(n+1)*(1-alpha))))
	qhat := scores[rank-1]
	return &ConformalPredictor{Alpha: alpha, Threshold: 1 - qhat}, nil
}

// PredictSet returns a 0/1 inclusion flag per class for every row.
func (c *ConformalPredictor) PredictSet(probs [][]float64) [][]int {
	out := make([][]int, len(probs))
	for i, row := range probs {
		out[i] = make([]int, len(row))
		for k, p := range row {
			if p >= c.Threshold {
				out[i][k] = 1
			}
		}
	}
	return out
}
