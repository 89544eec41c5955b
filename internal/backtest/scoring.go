// Package backtest evaluates probability forecasts and settled value bets.
package backtest

import (
	"fmt"
	"math"

	"github.com/yourusername/gfps/internal/numeric"
	"github.com/yourusername/gfps/internal/odds"
)

const logLossEpsilon = 1e-15

// DefaultCalibrationBins is the bin count used by ExpectedCalibrationError.
const DefaultCalibrationBins = 10

func checkScored(probs [][]float64, labels []int) (int, error) {
	width, err := numeric.CheckMatrix(probs)
	if err != nil {
		return 0, err
	}
	if len(labels) != len(probs) {
		return 0, fmt.Errorf("%w: %d rows, %d labels", odds.ErrDimensionMismatch, len(probs), len(labels))
	}
	for i, l := range labels {
		if l < 0 || l >= width {
			return 0, fmt.Errorf("%w: label %d at row %d outside [0, %d)", odds.ErrDimensionMismatch, l, i, width)
		}
	}
	return width, nil
}

// BrierScore is the mean squared distance between each row and its one-hot label.
func BrierScore(probs [][]float64, labels []int) (float64, error) {
	if _, err := checkScored(probs, labels); err != nil {
		return 0, err
	}
	total := 0.0
	for i, row := range probs {
		for j, p := range row {
			target := 0.0
			if j == labels[i] {
				target = 1
			}
			total += (p - target) * (p - target)
		}
	}
	return total / float64(len(probs)), nil
}

// LogLoss is the mean negative log probability of the true label, with
// probabilities clipped to [1e-15, 1-1e-15].
func LogLoss(probs [][]float64, labels []int) (float64, error) {
	if _, err := checkScored(probs, labels); err != nil {
		return 0, err
	}
	total := 0.0
	for i, row := range probs {
		total -= math.Log(numeric.Clip(row[labels[i]], logLossEpsilon, 1-logLossEpsilon))
	}
	return total / float64(len(probs)), nil
}

// ExpectedCalibrationError bins rows by top-class confidence into equal-width
// bins and sums |confidence - accuracy| weighted by bin share. A confidence of
// exactly 1 falls in the last bin.
func ExpectedCalibrationError(probs [][]float64, labels []int, bins int) (float64, error) {
	if _, err := checkScored(probs, labels); err != nil {
		return 0, err
	}
	if bins <= 0 {
		bins = DefaultCalibrationBins
	}

	confSum := make([]float64, bins)
	hits := make([]float64, bins)
	counts := make([]float64, bins)
	for i, row := range probs {
		pred := numeric.ArgMax(row)
		conf := row[pred]
		b := int(conf * float64(bins))
		if b >= bins {
			b = bins - 1
		}
		if b < 0 {
			b = 0
		}
		confSum[b] += conf
		counts[b]++
		if pred == labels[i] {
			hits[b]++
		}
	}

	n := float64(len(probs))
	ece := 0.0
	for b := 0; b < bins; b++ {
		if counts[b] == 0 {
			continue
		}
		ece += math.Abs(confSum[b]/counts[b]-hits[b]/counts[b]) * counts[b] / n
	}
	return ece, nil
}
