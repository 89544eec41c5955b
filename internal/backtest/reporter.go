package backtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GenerateConsoleReport formats a run for terminal output
func GenerateConsoleReport(result Result, mc *MonteCarloResult) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Bets: %d (won %d, lost %d)\n", result.TotalBets, result.WinningBets, result.LosingBets))
	builder.WriteString(fmt.Sprintf("Staked: %.2f\n", result.TotalStaked))
	builder.WriteString(fmt.Sprintf("P&L: %.2f\n", result.PnL))
	builder.WriteString(fmt.Sprintf("ROI: %.2f%%\n", result.ROI*100))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f\n", result.MaxDrawdown))
	builder.WriteString(fmt.Sprintf("Win Rate: %.2f%%\n", result.WinRate*100))
	builder.WriteString(fmt.Sprintf("Profit Factor: %.2f\n", result.ProfitFactor))
	builder.WriteString(fmt.Sprintf("Sharpe (per bet): %.3f\n", result.SharpeRatio))
	if mc != nil {
		builder.WriteString(fmt.Sprintf("Simulated mean return: %.2f%%\n", mc.MeanReturn*100))
		builder.WriteString(fmt.Sprintf("Probability of profit: %.2f%%\n", mc.ProbabilityOfProfit*100))
		builder.WriteString(fmt.Sprintf("Probability of ruin: %.2f%%\n", mc.ProbabilityOfRuin*100))
	}
	return builder.String()
}

// GenerateCSVExport exports key metrics for spreadsheets
func GenerateCSVExport(result Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	csv := "metric,value\n" +
		fmt.Sprintf("total_bets,%d\n", result.TotalBets) +
		fmt.Sprintf("pnl,%.4f\n", result.PnL) +
		fmt.Sprintf("roi,%.4f\n", result.ROI) +
		fmt.Sprintf("max_drawdown,%.4f\n", result.MaxDrawdown) +
		fmt.Sprintf("win_rate,%.4f\n", result.WinRate) +
		fmt.Sprintf("profit_factor,%.4f\n", result.ProfitFactor) +
		fmt.Sprintf("sharpe_ratio,%.4f\n", result.SharpeRatio)
	return os.WriteFile(outputPath, []byte(csv), 0o644)
}
