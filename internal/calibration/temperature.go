package calibration

import (
	"fmt"
	"math"

	"github.com/yourusername/gfps/internal/numeric"
)

const (
	minTemperature        = 0.05
	maxTemperature        = 5.0
	temperatureCandidates = 50
)

// TemperatureScaler divides logits by a single fitted temperature.
type TemperatureScaler struct {
	Temperature float64 `json:"temperature"`
}

// FitTemperature grid-searches 50 temperatures in [0.05, 5.0] and keeps the
// one with the lowest mean negative log-likelihood; the first wins on ties.
func FitTemperature(logits [][]float64, labels []int) (*TemperatureScaler, error) {
	if _, err := checkFitInput(logits, labels); err != nil {
		return nil, err
	}

	best, bestLoss := minTemperature, math.Inf(1)
	for _, t := range numeric.Linspace(minTemperature, maxTemperature, temperatureCandidates) {
		if loss := temperatureNLL(t, logits, labels); loss < bestLoss {
			best, bestLoss = t, loss
		}
	}
	return &TemperatureScaler{Temperature: best}, nil
}

func temperatureNLL(t float64, logits [][]float64, labels []int) float64 {
	total := 0.0
	scaled := make([]float64, len(logits[0]))
	for i, row := range logits {
		for j, z := range row {
			scaled[j] = z / t
		}
		total -= numeric.LogSoftmax(scaled)[labels[i]]
	}
	return total / float64(len(logits))
}

// Transform applies a max-shifted softmax to logits / T.
func (s *TemperatureScaler) Transform(logits [][]float64) ([][]float64, error) {
	if !(s.Temperature > 0) {
		return nil, fmt.Errorf("temperature must be positive, got %v", s.Temperature)
	}
	if _, err := numeric.CheckMatrix(logits); err != nil {
		return nil, err
	}
	out := make([][]float64, len(logits))
	for i, row := range logits {
		scaled := make([]float64, len(row))
		for j, z := range row {
			scaled[j] = z / s.Temperature
		}
		out[i] = numeric.Softmax(scaled)
	}
	return out, nil
}
