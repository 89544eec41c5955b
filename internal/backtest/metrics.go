package backtest

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// calculateSharpeRatio is mean over population std-dev of per-bet returns.
// Bets are not evenly spaced in time, so no annualization is applied.
func calculateSharpeRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean, std := meanStd(returns)
	if std == 0 {
		return 0
	}
	return mean / std
}

func calculateProfitFactor(pnl []float64) float64 {
	grossProfit := 0.0
	grossLoss := 0.0
	for _, v := range pnl {
		if v > 0 {
			grossProfit += v
		} else {
			grossLoss += math.Abs(v)
		}
	}
	if grossLoss == 0 {
		if grossProfit > 0 {
			return 999
		}
		return 0
	}
	return grossProfit / grossLoss
}

func calculateExpectancy(pnl []float64) float64 {
	if len(pnl) == 0 {
		return 0
	}
	return stat.Mean(pnl, nil)
}

// calculateVaR returns the (1-level) lower quantile of values.
func calculateVaR(values []float64, level float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	index := int(math.Floor((1.0 - level) * float64(len(sorted))))
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

func calculateBetStats(pnl []float64) (int, int, float64, float64, float64, float64) {
	wins := 0
	losses := 0
	winSum := 0.0
	lossSum := 0.0
	largestWin := 0.0
	largestLoss := 0.0
	for _, v := range pnl {
		if v > 0 {
			wins++
			winSum += v
			if v > largestWin {
				largestWin = v
			}
		} else if v < 0 {
			losses++
			lossSum += v
			if v < largestLoss {
				largestLoss = v
			}
		}
	}

	avgWin := 0.0
	avgLoss := 0.0
	if wins > 0 {
		avgWin = winSum / float64(wins)
	}
	if losses > 0 {
		avgLoss = lossSum / float64(losses)
	}
	return wins, losses, avgWin, avgLoss, largestWin, largestLoss
}

func calculateWinRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(values, nil)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
