package odds

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// LineObservation is a price seen at a point in time, in minutes from the
// first observation.
type LineObservation struct {
	Minute float64 `json:"minute"`
	Price  float64 `json:"price"`
}

// ImpliedPath returns implied probabilities in time order. Prices <= 1 are skipped.
func ImpliedPath(observations []LineObservation) []float64 {
	sorted := make([]LineObservation, len(observations))
	copy(sorted, observations)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Minute < sorted[j].Minute })

	path := make([]float64, 0, len(sorted))
	for _, obs := range sorted {
		if !validPrice(obs.Price) {
			continue
		}
		path = append(path, 1.0/obs.Price)
	}
	return path
}

// Volatility is the population standard deviation of the implied path.
func Volatility(observations []LineObservation) float64 {
	path := ImpliedPath(observations)
	if len(path) == 0 {
		return 0
	}
	return stat.PopStdDev(path, nil)
}

// Drift is the signed move from the first to the last implied probability.
func Drift(observations []LineObservation) float64 {
	path := ImpliedPath(observations)
	if len(path) < 2 {
		return 0
	}
	return path[len(path)-1] - path[0]
}

// ClosingLineValue measures how much of the model's edge at the opening price
// survived to the close.
func ClosingLineValue(openPrice, closePrice, modelProb float64) (float64, error) {
	if !validPrice(openPrice) || !validPrice(closePrice) {
		return 0, fmt.Errorf("%w: open %v, close %v, prices must exceed 1.0", ErrInvalidOdds, openPrice, closePrice)
	}
	openProb := 1.0 / openPrice
	closeProb := 1.0 / closePrice
	return (modelProb - closeProb) - (modelProb - openProb), nil
}
