package backtest

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"
)

// MonteCarloConfig configures monte carlo simulation
type MonteCarloConfig struct {
	Iterations      int
	Seed            int64
	CommissionRate  float64
	InitialBankroll float64
}

// MonteCarloResult represents monte carlo outcomes
type MonteCarloResult struct {
	Iterations          int                `json:"iterations"`
	MeanReturn          float64            `json:"mean_return"`
	StdReturn           float64            `json:"std_return"`
	VaR95               float64            `json:"var_95"`
	VaR99               float64            `json:"var_99"`
	ProbabilityOfProfit float64            `json:"probability_of_profit"`
	ProbabilityOfRuin   float64            `json:"probability_of_ruin"`
	ConfidenceIntervals map[string]float64 `json:"confidence_intervals"`
	Distribution        []float64          `json:"distribution,omitempty"`
}

// RunMonteCarlo replays the bet sequence many times, settling each bet as a
// win with its model probability, and reports the spread of final bankrolls.
func RunMonteCarlo(ctx context.Context, bets []Bet, cfg MonteCarloConfig) (MonteCarloResult, error) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if cfg.InitialBankroll <= 0 {
		return MonteCarloResult{}, fmt.Errorf("initial bankroll must be positive, got %v", cfg.InitialBankroll)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	distribution := make([]float64, cfg.Iterations)

	for i := 0; i < cfg.Iterations; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return MonteCarloResult{}, err
			}
		}
		bankroll := cfg.InitialBankroll
		for _, bet := range bets {
			var pnl float64
			if rng.Float64() < bet.Probability {
				pnl = bet.Stake * (bet.Odds - 1)
				if cfg.CommissionRate > 0 {
					pnl -= pnl * cfg.CommissionRate
				}
			} else {
				pnl = -bet.Stake
			}
			bankroll += pnl
			if bankroll <= 0 {
				bankroll = 0
				break
			}
		}
		distribution[i] = bankroll
	}

	mean, std := meanStd(distribution)
	initial := cfg.InitialBankroll
	return MonteCarloResult{
		Iterations:          cfg.Iterations,
		MeanReturn:          (mean - initial) / initial,
		StdReturn:           std / initial,
		VaR95:               (percentile(distribution, 0.05) - initial) / initial,
		VaR99:               (percentile(distribution, 0.01) - initial) / initial,
		ProbabilityOfProfit: probabilityAbove(distribution, initial),
		ProbabilityOfRuin:   probabilityAtOrBelow(distribution, 0),
		ConfidenceIntervals: CalculateConfidenceIntervals(distribution, []float64{0.9, 0.95, 0.99}),
		Distribution:        distribution,
	}, nil
}

// CalculateConfidenceIntervals returns the width of the central interval at
// each level.
func CalculateConfidenceIntervals(distribution []float64, levels []float64) map[string]float64 {
	results := make(map[string]float64)
	for _, level := range levels {
		p := (1.0 - level) / 2.0
		low := percentile(distribution, p)
		high := percentile(distribution, 1.0-p)
		results[formatPercent(level)] = high - low
	}
	return results
}

// ToJSON exports the result without the raw distribution.
func (m MonteCarloResult) ToJSON() string {
	m.Distribution = nil
	data, _ := json.Marshal(m)
	return string(data)
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func probabilityAtOrBelow(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v <= threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func formatPercent(level float64) string {
	return fmt.Sprintf("%.0f%%", level*100)
}
