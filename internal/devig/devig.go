// Package devig strips the bookmaker margin from a set of decimal prices,
// producing fair probabilities that sum to one.
package devig

import (
	"fmt"

	"github.com/yourusername/gfps/internal/odds"
)

// Method names a margin-removal technique.
type Method string

const (
	MethodOverround Method = "overround"
	MethodPower     Method = "power"
	MethodShin      Method = "shin"
)

// Remover turns decimal prices into fair probabilities in the same label order.
type Remover interface {
	Remove(prices odds.Outcomes) (odds.Outcomes, error)
}

// New returns the Remover for method.
func New(method Method) (Remover, error) {
	switch method {
	case MethodOverround, "":
		return Overround{}, nil
	case MethodPower:
		return Power{}, nil
	case MethodShin:
		return Shin{}, nil
	default:
		return nil, fmt.Errorf("unknown devig method %q", method)
	}
}

// Overround scales implied probabilities proportionally.
type Overround struct{}

func (Overround) Remove(prices odds.Outcomes) (odds.Outcomes, error) {
	return FairFromOverround(prices)
}

// FairFromOverround normalizes the implied probabilities of prices.
func FairFromOverround(prices odds.Outcomes) (odds.Outcomes, error) {
	implied, err := odds.DecimalToImplied(prices)
	if err != nil {
		return nil, err
	}
	return odds.NormalizeProbabilities(implied)
}
