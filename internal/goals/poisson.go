package goals

import (
	"fmt"
	"math"

	"github.com/yourusername/gfps/internal/odds"
)

// MinLambda is the floor applied to scoring rates so no pmf collapses to a point mass.
const MinLambda = 1e-6

// Params holds the two expected-goal rates of a fixture.
type Params struct {
	LambdaHome float64 `json:"lambda_home"`
	LambdaAway float64 `json:"lambda_away"`
}

// NewParams validates and floors the rates.
func NewParams(lambdaHome, lambdaAway float64) (Params, error) {
	h, err := checkLambda("home", lambdaHome)
	if err != nil {
		return Params{}, err
	}
	a, err := checkLambda("away", lambdaAway)
	if err != nil {
		return Params{}, err
	}
	return Params{LambdaHome: h, LambdaAway: a}, nil
}

func checkLambda(name string, lambda float64) (float64, error) {
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) || lambda < 0 {
		return 0, fmt.Errorf("%w: lambda_%s must be finite and non-negative, got %v", odds.ErrInvalidProbability, name, lambda)
	}
	return math.Max(lambda, MinLambda), nil
}

// Prediction is a score matrix with its 1X2 summary.
type Prediction struct {
	Matrix  ScoreMatrix `json:"score_matrix"`
	OneXTwo OneXTwo     `json:"one_x_two"`
}

// PoissonPMF evaluates lambda^k e^-lambda / k! in log space.
func PoissonPMF(lambda float64, k int) float64 {
	if k < 0 {
		return 0
	}
	if lambda == 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	lg, _ := math.Lgamma(float64(k) + 1)
	return math.Exp(float64(k)*math.Log(lambda) - lambda - lg)
}

func pmfVector(lambda float64, maxGoals int) []float64 {
	v := make([]float64, maxGoals+1)
	for k := range v {
		v[k] = PoissonPMF(lambda, k)
	}
	return v
}

func checkMaxGoals(maxGoals int) error {
	if maxGoals < 1 {
		return fmt.Errorf("max goals must be at least 1, got %d", maxGoals)
	}
	return nil
}

func independentMatrix(p Params, maxGoals int) ScoreMatrix {
	home := pmfVector(p.LambdaHome, maxGoals)
	away := pmfVector(p.LambdaAway, maxGoals)
	m := newMatrix(maxGoals)
	for i := range m {
		for j := range m[i] {
			m[i][j] = home[i] * away[j]
		}
	}
	return m
}

func predictionFrom(m ScoreMatrix) (*Prediction, error) {
	if err := Renormalize(m); err != nil {
		return nil, err
	}
	oneXTwo, err := m.OneXTwo()
	if err != nil {
		return nil, err
	}
	return &Prediction{Matrix: m, OneXTwo: oneXTwo}, nil
}

// ScoreProbabilities is the independent Poisson model: the outer product of
// the two truncated pmfs, renormalized.
func ScoreProbabilities(p Params, maxGoals int) (*Prediction, error) {
	if err := checkMaxGoals(maxGoals); err != nil {
		return nil, err
	}
	return predictionFrom(independentMatrix(p, maxGoals))
}

// EstimateFromHistory takes Laplace-smoothed mean goals (constant 1) over
// aligned home and away goal sequences.
func EstimateFromHistory(homeGoals, awayGoals []int) (Params, error) {
	if len(homeGoals) != len(awayGoals) {
		return Params{}, fmt.Errorf("%w: %d home vs %d away goal counts", odds.ErrDimensionMismatch, len(homeGoals), len(awayGoals))
	}
	const smooth = 1.0
	n := float64(len(homeGoals))
	sumHome, sumAway := 0, 0
	for i := range homeGoals {
		sumHome += homeGoals[i]
		sumAway += awayGoals[i]
	}
	return NewParams((float64(sumHome)+smooth)/(n+smooth), (float64(sumAway)+smooth)/(n+smooth))
}
