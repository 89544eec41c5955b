package backtest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yourusername/gfps/internal/odds"
)

// Bet is one settled selection.
type Bet struct {
	Outcome     string    `json:"outcome"`
	Probability float64   `json:"probability"`
	Odds        float64   `json:"odds"`
	Stake       float64   `json:"stake"`
	Result      string    `json:"result"`
	PlacedAt    time.Time `json:"placed_at,omitempty"`
}

// Won reports whether the bet's outcome matches the settled result.
func (b Bet) Won() bool {
	return b.Outcome == b.Result
}

// PnL is stake·(odds-1) for a winner and -stake otherwise.
func (b Bet) PnL() float64 {
	if b.Won() {
		return b.Stake * (b.Odds - 1)
	}
	return -b.Stake
}

// Result summarizes a run over settled bets. MaxDrawdown is the largest
// peak-to-trough fall of cumulative profit, in stake units.
type Result struct {
	PnL          float64     `json:"pnl"`
	ROI          float64     `json:"roi"`
	MaxDrawdown  float64     `json:"max_drawdown"`
	TotalStaked  float64     `json:"total_staked"`
	TotalBets    int         `json:"total_bets"`
	WinningBets  int         `json:"winning_bets"`
	LosingBets   int         `json:"losing_bets"`
	WinRate      float64     `json:"win_rate"`
	ProfitFactor float64     `json:"profit_factor"`
	AverageWin   float64     `json:"average_win"`
	AverageLoss  float64     `json:"average_loss"`
	Expectancy   float64     `json:"expectancy"`
	LargestWin   float64     `json:"largest_win"`
	LargestLoss  float64     `json:"largest_loss"`
	SharpeRatio  float64     `json:"sharpe_ratio"`
	ValueAtRisk  float64     `json:"var_95"`
	EquityCurve  EquityCurve `json:"equity_curve"`
}

// Run settles bets in order.
func Run(bets []Bet) (Result, error) {
	pnl := make([]float64, len(bets))
	staked := 0.0
	for i, b := range bets {
		if b.Stake < 0 {
			return Result{}, fmt.Errorf("bet %d: negative stake %v", i, b.Stake)
		}
		if !(b.Odds > 1.0) {
			return Result{}, fmt.Errorf("bet %d: %w: %v", i, odds.ErrInvalidOdds, b.Odds)
		}
		pnl[i] = b.PnL()
		staked += b.Stake
	}

	res := Result{TotalBets: len(bets), TotalStaked: staked}
	res.EquityCurve = buildEquityCurve(bets, pnl)
	for _, v := range pnl {
		res.PnL += v
	}
	if staked > 0 {
		res.ROI = res.PnL / staked
	}
	res.MaxDrawdown = res.EquityCurve.MaxDrawdown()

	res.WinningBets, res.LosingBets, res.AverageWin, res.AverageLoss, res.LargestWin, res.LargestLoss = calculateBetStats(pnl)
	res.WinRate = calculateWinRate(res.WinningBets, res.TotalBets)
	res.ProfitFactor = calculateProfitFactor(pnl)
	res.Expectancy = calculateExpectancy(pnl)
	res.SharpeRatio = calculateSharpeRatio(perUnitReturns(bets, pnl))
	res.ValueAtRisk = calculateVaR(pnl, 0.95)
	return res, nil
}

// ToJSON exports the result to JSON
func (r Result) ToJSON() string {
	data, _ := json.Marshal(r)
	return string(data)
}

func perUnitReturns(bets []Bet, pnl []float64) []float64 {
	out := make([]float64, 0, len(bets))
	for i, b := range bets {
		if b.Stake > 0 {
			out = append(out, pnl[i]/b.Stake)
		}
	}
	return out
}
