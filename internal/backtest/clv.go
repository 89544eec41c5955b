package backtest

import (
	"fmt"

	"github.com/yourusername/gfps/internal/odds"
)

// CLV is the expected profit of stake at the closing price given the model
// probability.
func CLV(modelProb, closingOdds, stake float64) (float64, error) {
	if !(closingOdds > 1.0) {
		return 0, fmt.Errorf("%w: closing odds %v must exceed 1.0", odds.ErrInvalidOdds, closingOdds)
	}
	edge := modelProb*(closingOdds-1) - (1 - modelProb)
	return edge * stake, nil
}

// PortfolioCLV computes unit-stake CLV for every outcome with a closing price.
func PortfolioCLV(modelProbs, closingOdds odds.Outcomes) (odds.Outcomes, error) {
	out := odds.Outcomes{}
	for _, e := range modelProbs {
		price, ok := closingOdds.Get(e.Label)
		if !ok {
			continue
		}
		v, err := CLV(e.Value, price, 1.0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Label, err)
		}
		out = append(out, odds.Outcome{Label: e.Label, Value: v})
	}
	return out, nil
}
