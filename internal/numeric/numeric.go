// Package numeric holds the small vector routines shared by the ensemble,
// calibration and classifier packages.
package numeric

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/yourusername/gfps/internal/odds"
)

// Softmax exponentiates z after subtracting its maximum, so large logits do
// not overflow, and normalizes.
func Softmax(z []float64) []float64 {
	out := make([]float64, len(z))
	if len(z) == 0 {
		return out
	}
	lse := floats.LogSumExp(z)
	for i, v := range z {
		out[i] = math.Exp(v - lse)
	}
	return out
}

// LogSoftmax returns log(Softmax(z)) without leaving log space.
func LogSoftmax(z []float64) []float64 {
	out := make([]float64, len(z))
	if len(z) == 0 {
		return out
	}
	lse := floats.LogSumExp(z)
	for i, v := range z {
		out[i] = v - lse
	}
	return out
}

// Sigmoid is the logistic function, evaluated without overflow for large |x|.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// ArgMax returns the index of the largest value, the first on ties, or -1
// for an empty slice.
func ArgMax(v []float64) int {
	if len(v) == 0 {
		return -1
	}
	return floats.MaxIdx(v)
}

// Normalize rescales v to unit sum, rejecting negative entries and
// non-positive totals.
func Normalize(v []float64) ([]float64, error) {
	total := 0.0
	for i, x := range v {
		if x < 0 || math.IsNaN(x) {
			return nil, fmt.Errorf("%w: entry %d is %v", odds.ErrDegenerateProbability, i, x)
		}
		total += x
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: total mass %v", odds.ErrDegenerateProbability, total)
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / total
	}
	return out, nil
}

// Entropy is the Shannon entropy (natural log) of p; zero entries contribute nothing.
func Entropy(p []float64) float64 {
	h := 0.0
	for _, x := range p {
		if x > 0 {
			h -= x * math.Log(x)
		}
	}
	return h
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	floats.Span(out, start, stop)
	return out
}

// Quantile returns the q-th quantile of x with linear interpolation between
// order statistics at position q*(n-1). x is not modified.
func Quantile(x []float64, q float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	q = math.Min(math.Max(q, 0), 1)
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Clip bounds x to [lo, hi].
func Clip(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}

// CheckMatrix verifies that rows is non-empty and rectangular and returns its width.
func CheckMatrix(rows [][]float64) (int, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: no rows", odds.ErrDimensionMismatch)
	}
	width := len(rows[0])
	for i, r := range rows {
		if len(r) != width {
			return 0, fmt.Errorf("%w: row %d has %d columns, want %d", odds.ErrDimensionMismatch, i, len(r), width)
		}
	}
	return width, nil
}
