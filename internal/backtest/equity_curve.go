package backtest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// EquityPoint is cumulative profit after one bet.
type EquityPoint struct {
	Index    int       `json:"index"`
	Time     time.Time `json:"time,omitempty"`
	Value    float64   `json:"value"`
	Drawdown float64   `json:"drawdown"`
	PnL      float64   `json:"pnl"`
}

// EquityCurve is the running profit of a bet sequence, starting from zero.
type EquityCurve []EquityPoint

func buildEquityCurve(bets []Bet, pnl []float64) EquityCurve {
	curve := make(EquityCurve, len(bets))
	equity, peak := 0.0, 0.0
	for i, b := range bets {
		equity += pnl[i]
		if equity > peak {
			peak = equity
		}
		curve[i] = EquityPoint{Index: i, Time: b.PlacedAt, Value: equity, Drawdown: peak - equity, PnL: pnl[i]}
	}
	return curve
}

// MaxDrawdown is the largest absolute fall from a running peak, with the
// peak starting at zero.
func (e EquityCurve) MaxDrawdown() float64 {
	maxDD := 0.0
	for _, p := range e {
		if p.Drawdown > maxDD {
			maxDD = p.Drawdown
		}
	}
	return maxDD
}

// ToCSV exports equity curve to CSV string
func (e EquityCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("index,time,value,drawdown,pnl\n")
	for _, point := range e {
		buf.WriteString(strconv.Itoa(point.Index))
		buf.WriteString(",")
		if !point.Time.IsZero() {
			buf.WriteString(point.Time.Format(time.RFC3339))
		}
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Value))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Drawdown))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.PnL))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports equity curve to JSON string
func (e EquityCurve) ToJSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
