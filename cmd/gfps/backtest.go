package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/gfps/internal/backtest"
	"github.com/yourusername/gfps/internal/calibration"
	"github.com/yourusername/gfps/internal/numeric"
)

// backtestInput is the file format read by the backtest command.
type backtestInput struct {
	Bets      []backtest.Bet `json:"bets"`
	Forecasts *struct {
		Probs  [][]float64 `json:"probs"`
		Labels []int       `json:"labels"`
	} `json:"forecasts,omitempty"`
}

type backtestReport struct {
	Result      backtest.Result            `json:"result"`
	MonteCarlo  *backtest.MonteCarloResult `json:"monte_carlo,omitempty"`
	WalkForward *backtest.WalkForwardResult `json:"walk_forward,omitempty"`
}

// calibrators maps --calibrator values to fit functions.
var calibrators = map[string]backtest.FitFunc{
	"isotonic": func(p [][]float64, l []int) (calibration.Calibrator, error) {
		return calibration.FitIsotonic(p, l)
	},
	"platt": func(p [][]float64, l []int) (calibration.Calibrator, error) {
		return calibration.FitPlatt(p, l)
	},
	"temperature": func(p [][]float64, l []int) (calibration.Calibrator, error) {
		ts, err := calibration.FitTemperature(logProbs(p), l)
		if err != nil {
			return nil, err
		}
		return logInput{ts}, nil
	},
}

// logInput feeds log probabilities to a calibrator that expects logits.
type logInput struct {
	inner calibration.Calibrator
}

func (c logInput) Transform(probs [][]float64) ([][]float64, error) {
	return c.inner.Transform(logProbs(probs))
}

func logProbs(probs [][]float64) [][]float64 {
	out := make([][]float64, len(probs))
	for i, row := range probs {
		out[i] = make([]float64, len(row))
		for j, p := range row {
			out[i][j] = math.Log(numeric.Clip(p, 1e-15, 1))
		}
	}
	return out
}

func newBacktestCmd(a *app) *cobra.Command {
	var (
		input      string
		iterations int
		seed       int64
		bankroll   float64
		commission float64
		csvPath    string
		asJSON     bool
		calibrator string
		trainSize  int
		testSize   int
	)

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Settle historical bets and score forecasts",
		Example: `  gfps backtest --input bets.json --monte-carlo 5000 --bankroll 1000
  gfps backtest --input history.json --calibrator isotonic --train 500 --test 100 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readBacktestInput(input)
			if err != nil {
				return err
			}

			result, err := backtest.Run(in.Bets)
			if err != nil {
				return err
			}
			report := backtestReport{Result: result}

			if iterations > 0 {
				if !cmd.Flags().Changed("bankroll") && a.cfg.Value.Bankroll > 0 {
					bankroll = a.cfg.Value.Bankroll
				}
				mc, err := backtest.RunMonteCarlo(cmd.Context(), in.Bets, backtest.MonteCarloConfig{
					Iterations:      iterations,
					Seed:            seed,
					CommissionRate:  commission,
					InitialBankroll: bankroll,
				})
				if err != nil {
					return fmt.Errorf("monte carlo failed: %w", err)
				}
				report.MonteCarlo = &mc
			}

			if in.Forecasts != nil && calibrator != "" {
				fit, ok := calibrators[calibrator]
				if !ok {
					return fmt.Errorf("unknown calibrator %q", calibrator)
				}
				wf, err := backtest.RunWalkForward(in.Forecasts.Probs, in.Forecasts.Labels, fit, backtest.WalkForwardConfig{
					TrainSize: trainSize,
					TestSize:  testSize,
				})
				if err != nil {
					return fmt.Errorf("walk-forward failed: %w", err)
				}
				report.WalkForward = &wf
			}

			if csvPath != "" {
				if err := backtest.GenerateCSVExport(result, csvPath); err != nil {
					return fmt.Errorf("failed to write csv: %w", err)
				}
			}

			a.log.WithField("bets", result.TotalBets).Info("Backtest completed")
			if asJSON {
				return writeJSON(cmd, report)
			}
			return writeConsoleReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON file with settled bets and optional forecasts")
	cmd.Flags().IntVar(&iterations, "monte-carlo", 0, "Monte Carlo iterations (0 disables)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Monte Carlo seed (0 uses the clock)")
	cmd.Flags().Float64Var(&bankroll, "bankroll", 1000, "Starting bankroll for simulation")
	cmd.Flags().Float64Var(&commission, "commission", 0, "Commission rate on winnings")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write summary metrics to this CSV file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full report as JSON")
	cmd.Flags().StringVar(&calibrator, "calibrator", "", "Walk-forward calibrator: isotonic, platt or temperature")
	cmd.Flags().IntVar(&trainSize, "train", 500, "Walk-forward training window, in forecasts")
	cmd.Flags().IntVar(&testSize, "test", 100, "Walk-forward test window, in forecasts")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func readBacktestInput(path string) (*backtestInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	var in backtestInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	return &in, nil
}

func writeConsoleReport(w io.Writer, r backtestReport) error {
	if _, err := io.WriteString(w, backtest.GenerateConsoleReport(r.Result, r.MonteCarlo)); err != nil {
		return err
	}
	if wf := r.WalkForward; wf != nil {
		_, err := fmt.Fprintf(w, "Walk-forward windows: %d\nLog loss raw/calibrated: %.4f / %.4f\nConsistency: %.2f%%\n",
			len(wf.Windows), wf.MeanRaw.LogLoss, wf.MeanCalibrated.LogLoss, wf.ConsistencyScore*100)
		return err
	}
	return nil
}
