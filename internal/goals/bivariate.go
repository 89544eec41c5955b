package goals

import (
	"fmt"
	"math"

	"github.com/yourusername/gfps/internal/odds"
)

// BivariateParams adds a shared scoring component to the two team rates.
type BivariateParams struct {
	LambdaHome   float64 `json:"lambda_home"`
	LambdaAway   float64 `json:"lambda_away"`
	LambdaShared float64 `json:"lambda_shared"`
}

// BivariatePoisson builds the score matrix of the bivariate Poisson model,
//
//	P(i, j) = e^-(l1+l2+l3) * sum_k l1^(i-k)/(i-k)! * l2^(j-k)/(j-k)! * l3^k/k!
//
// for k = 0..min(i, j), then renormalizes. A zero shared rate gives the
// independent model.
func BivariatePoisson(p BivariateParams, maxGoals int) (*Prediction, error) {
	if err := checkMaxGoals(maxGoals); err != nil {
		return nil, err
	}
	base, err := NewParams(p.LambdaHome, p.LambdaAway)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(p.LambdaShared) || math.IsInf(p.LambdaShared, 0) || p.LambdaShared < 0 {
		return nil, fmt.Errorf("%w: lambda_shared must be finite and non-negative, got %v", odds.ErrInvalidProbability, p.LambdaShared)
	}

	home := pmfVector(base.LambdaHome, maxGoals)
	away := pmfVector(base.LambdaAway, maxGoals)
	shared := pmfVector(p.LambdaShared, maxGoals)

	// Each pmf already carries its own exp(-lambda) factor, so the product of
	// three pmfs reproduces the joint exponential term.
	m := newMatrix(maxGoals)
	for i := range m {
		for j := range m[i] {
			term := 0.0
			for k := 0; k <= min(i, j); k++ {
				term += home[i-k] * away[j-k] * shared[k]
			}
			m[i][j] = term
		}
	}
	return predictionFrom(m)
}
