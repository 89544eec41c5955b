package numeric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/yourusername/gfps/internal/odds"
)

const defaultMaxIterations = 500

// MultinomialLogit is a softmax regression: class scores are W·x + b.
type MultinomialLogit struct {
	Weights    [][]float64 `json:"coefficients"`
	Intercepts []float64   `json:"intercepts"`
}

// PredictProba returns class probabilities for one feature vector.
func (m *MultinomialLogit) PredictProba(x []float64) ([]float64, error) {
	if len(m.Weights) == 0 || len(m.Intercepts) != len(m.Weights) {
		return nil, fmt.Errorf("%w: %d coefficient rows, %d intercepts", odds.ErrDimensionMismatch, len(m.Weights), len(m.Intercepts))
	}
	z := make([]float64, len(m.Weights))
	for k, w := range m.Weights {
		if len(w) != len(x) {
			return nil, fmt.Errorf("%w: %d features, model expects %d", odds.ErrDimensionMismatch, len(x), len(w))
		}
		z[k] = m.Intercepts[k] + dot(w, x)
	}
	return Softmax(z), nil
}

// FitMultinomialLogit fits a softmax regression with an L2 penalty of
// l2/2·||W||² (intercepts unpenalized) by L-BFGS.
func FitMultinomialLogit(x [][]float64, y []int, classes int, l2 float64) (*MultinomialLogit, error) {
	dims, err := CheckMatrix(x)
	if err != nil {
		return nil, err
	}
	if len(y) != len(x) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", odds.ErrDimensionMismatch, len(x), len(y))
	}
	if classes < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", classes)
	}
	for i, label := range y {
		if label < 0 || label >= classes {
			return nil, fmt.Errorf("label %d at row %d outside [0, %d)", label, i, classes)
		}
	}

	stride := dims + 1
	n := float64(len(x))
	unpack := func(params []float64) ([][]float64, []float64) {
		w := make([][]float64, classes)
		b := make([]float64, classes)
		for k := 0; k < classes; k++ {
			w[k] = params[k*stride : k*stride+dims]
			b[k] = params[k*stride+dims]
		}
		return w, b
	}

	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			w, b := unpack(params)
			loss := 0.0
			z := make([]float64, classes)
			for i, row := range x {
				for k := range z {
					z[k] = b[k] + dot(w[k], row)
				}
				loss -= LogSoftmax(z)[y[i]]
			}
			return loss/n + 0.5*l2*squaredNorm(w)/n
		},
		Grad: func(grad, params []float64) {
			w, b := unpack(params)
			for j := range grad {
				grad[j] = 0
			}
			z := make([]float64, classes)
			for i, row := range x {
				for k := range z {
					z[k] = b[k] + dot(w[k], row)
				}
				p := Softmax(z)
				for k := 0; k < classes; k++ {
					diff := p[k]
					if k == y[i] {
						diff -= 1
					}
					base := k * stride
					for d, v := range row {
						grad[base+d] += diff * v / n
					}
					grad[base+dims] += diff / n
				}
			}
			for k := 0; k < classes; k++ {
				for d := 0; d < dims; d++ {
					grad[k*stride+d] += l2 * w[k][d] / n
				}
			}
		},
	}

	params, err := minimize(problem, make([]float64, classes*stride))
	if err != nil {
		return nil, err
	}
	w, b := unpack(params)
	return &MultinomialLogit{Weights: copyRows(w), Intercepts: append([]float64(nil), b...)}, nil
}

// BinaryLogit is a single logistic regression, P(y=1) = sigmoid(w·x + b).
type BinaryLogit struct {
	Weights   []float64 `json:"coefficients"`
	Intercept float64   `json:"intercept"`
}

// Predict returns P(y=1 | x).
func (m *BinaryLogit) Predict(x []float64) float64 {
	return Sigmoid(m.Intercept + dot(m.Weights, x))
}

// FitBinaryLogit fits a penalized logistic regression by L-BFGS.
func FitBinaryLogit(x [][]float64, y []bool, l2 float64) (*BinaryLogit, error) {
	dims, err := CheckMatrix(x)
	if err != nil {
		return nil, err
	}
	if len(y) != len(x) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", odds.ErrDimensionMismatch, len(x), len(y))
	}
	n := float64(len(x))

	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			w, b := params[:dims], params[dims]
			loss := 0.0
			for i, row := range x {
				z := b + dot(w, row)
				// log(1 + e^-z) for positives, log(1 + e^z) for negatives
				if y[i] {
					loss += softplus(-z)
				} else {
					loss += softplus(z)
				}
			}
			return loss/n + 0.5*l2*dot(w, w)/n
		},
		Grad: func(grad, params []float64) {
			w, b := params[:dims], params[dims]
			for j := range grad {
				grad[j] = 0
			}
			for i, row := range x {
				diff := Sigmoid(b + dot(w, row))
				if y[i] {
					diff -= 1
				}
				for d, v := range row {
					grad[d] += diff * v / n
				}
				grad[dims] += diff / n
			}
			for d := 0; d < dims; d++ {
				grad[d] += l2 * w[d] / n
			}
		},
	}

	params, err := minimize(problem, make([]float64, dims+1))
	if err != nil {
		return nil, err
	}
	return &BinaryLogit{Weights: append([]float64(nil), params[:dims]...), Intercept: params[dims]}, nil
}

// minimize runs L-BFGS and accepts the last location even when the line
// search stops early near the optimum.
func minimize(problem optimize.Problem, init []float64) ([]float64, error) {
	settings := &optimize.Settings{MajorIterations: defaultMaxIterations}
	result, err := optimize.Minimize(problem, init, settings, &optimize.LBFGS{})
	if result == nil {
		return nil, fmt.Errorf("logistic fit failed: %w", err)
	}
	for _, v := range result.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("logistic fit diverged")
		}
	}
	return result.X, nil
}

func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func squaredNorm(rows [][]float64) float64 {
	s := 0.0
	for _, r := range rows {
		s += dot(r, r)
	}
	return s
}

func copyRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = append([]float64(nil), r...)
	}
	return out
}
