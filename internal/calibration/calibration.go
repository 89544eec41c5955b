// Package calibration maps raw model scores to probabilities whose
// frequencies match observed outcomes.
package calibration

import (
	"fmt"

	"github.com/yourusername/gfps/internal/numeric"
	"github.com/yourusername/gfps/internal/odds"
)

// Calibrator transforms rows of raw scores into calibrated probability rows.
type Calibrator interface {
	Transform(scores [][]float64) ([][]float64, error)
}

func checkFitInput(scores [][]float64, labels []int) (int, error) {
	width, err := numeric.CheckMatrix(scores)
	if err != nil {
		return 0, err
	}
	if len(labels) != len(scores) {
		return 0, fmt.Errorf("%w: %d rows, %d labels", odds.ErrDimensionMismatch, len(scores), len(labels))
	}
	for i, label := range labels {
		if label < 0 || label >= width {
			return 0, fmt.Errorf("label %d at row %d outside [0, %d)", label, i, width)
		}
	}
	return width, nil
}

func checkWidth(scores [][]float64, want int) error {
	width, err := numeric.CheckMatrix(scores)
	if err != nil {
		return err
	}
	if width != want {
		return fmt.Errorf("%w: %d columns, calibrator fitted on %d", odds.ErrDimensionMismatch, width, want)
	}
	return nil
}
