package calibration

import (
	"sort"

	"github.com/yourusername/gfps/internal/numeric"
)

// isotonicFit is a non-decreasing step function given by its knots; values
// between knots are interpolated linearly and values outside are clipped.
type isotonicFit struct {
	x []float64
	y []float64
}

// fitIsotonic runs pool-adjacent-violators on (x, y) pairs.
func fitIsotonic(x, y []float64) isotonicFit {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	// merge tied x values first
	type block struct {
		x, sum, weight float64
	}
	var blocks []block
	for _, i := range idx {
		if n := len(blocks); n > 0 && blocks[n-1].x == x[i] {
			blocks[n-1].sum += y[i]
			blocks[n-1].weight++
			continue
		}
		blocks = append(blocks, block{x: x[i], sum: y[i], weight: 1})
	}

	type pooled struct {
		xs          []float64
		sum, weight float64
	}
	var stack []pooled
	for _, b := range blocks {
		stack = append(stack, pooled{xs: []float64{b.x}, sum: b.sum, weight: b.weight})
		for len(stack) > 1 {
			last, prev := stack[len(stack)-1], stack[len(stack)-2]
			if prev.sum/prev.weight <= last.sum/last.weight {
				break
			}
			prev.xs = append(prev.xs, last.xs...)
			prev.sum += last.sum
			prev.weight += last.weight
			stack = stack[:len(stack)-1]
			stack[len(stack)-1] = prev
		}
	}

	fit := isotonicFit{}
	for _, p := range stack {
		level := p.sum / p.weight
		for _, xv := range p.xs {
			fit.x = append(fit.x, xv)
			fit.y = append(fit.y, level)
		}
	}
	return fit
}

func (f isotonicFit) predict(v float64) float64 {
	n := len(f.x)
	switch {
	case n == 0:
		return 0
	case v <= f.x[0]:
		return f.y[0]
	case v >= f.x[n-1]:
		return f.y[n-1]
	}
	j := sort.SearchFloat64s(f.x, v)
	if f.x[j] == v {
		return f.y[j]
	}
	x0, x1 := f.x[j-1], f.x[j]
	return f.y[j-1] + (f.y[j]-f.y[j-1])*(v-x0)/(x1-x0)
}

// IsotonicCalibrator fits one monotone map per class against the one-hot
// label indicator.
type IsotonicCalibrator struct {
	models []isotonicFit
}

// FitIsotonic trains the per-class maps.
func FitIsotonic(probs [][]float64, labels []int) (*IsotonicCalibrator, error) {
	classes, err := checkFitInput(probs, labels)
	if err != nil {
		return nil, err
	}
	models := make([]isotonicFit, classes)
	for k := 0; k < classes; k++ {
		x := make([]float64, len(probs))
		y := make([]float64, len(probs))
		for i, row := range probs {
			x[i] = row[k]
			if labels[i] == k {
				y[i] = 1
			}
		}
		models[k] = fitIsotonic(x, y)
	}
	return &IsotonicCalibrator{models: models}, nil
}

// Transform maps each column and renormalizes rows to sum to one.
func (c *IsotonicCalibrator) Transform(probs [][]float64) ([][]float64, error) {
	if err := checkWidth(probs, len(c.models)); err != nil {
		return nil, err
	}
	out := make([][]float64, len(probs))
	for i, row := range probs {
		raw := make([]float64, len(row))
		for k, v := range row {
			raw[k] = c.models[k].predict(v)
		}
		normalized, err := numeric.Normalize(raw)
		if err != nil {
			return nil, err
		}
		out[i] = normalized
	}
	return out, nil
}
