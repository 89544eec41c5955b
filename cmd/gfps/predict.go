package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/gfps/internal/consensus"
	"github.com/yourusername/gfps/internal/odds"
	"github.com/yourusername/gfps/internal/prediction"
	"github.com/yourusername/gfps/internal/value"
)

type predictResult struct {
	Prediction *prediction.Output `json:"prediction"`
	ValueBets  []value.ValueBet   `json:"value_bets"`
	Published  int                `json:"published"`
}

func newPredictCmd(a *app) *cobra.Command {
	var (
		input   string
		publish bool
		fromDB  bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict 1X2 probabilities for a fixture and scan its prices for value",
		Example: `  gfps predict --input fixture.json
  gfps predict --input fixture.json --strength-from-db --publish`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			var in prediction.Input
			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("failed to parse input: %w", err)
			}

			var opts []prediction.Option
			if fromDB {
				db, repos, err := a.repositories(ctx)
				if err != nil {
					return err
				}
				defer db.Close()
				table, err := a.strengthTable(ctx, repos)
				if err != nil {
					return err
				}
				opts = append(opts, prediction.WithStrengthTable(table))
			}

			engine, err := a.engine(opts...)
			if err != nil {
				return err
			}
			out, err := engine.Predict(ctx, in)
			if err != nil {
				return err
			}

			fx := value.Fixture{ID: in.FixtureID, HomeTeam: in.HomeTeam, AwayTeam: in.AwayTeam, Market: "1x2"}
			prices := prediction.CanonicalOutcomes(in.Odds)
			if len(prices) == 0 {
				prices = bestPrices(in.Lines)
			}
			bets, err := a.scanner().Scan(fx, out.Probabilities, prices, out.Views.Market)
			if err != nil {
				return fmt.Errorf("value scan failed: %w", err)
			}

			res := predictResult{Prediction: out, ValueBets: bets}
			if publish && len(bets) > 0 {
				pub, closeFn, err := a.publisher()
				if err != nil {
					return err
				}
				defer closeFn()
				if err := pub.PublishAll(ctx, bets); err != nil {
					return err
				}
				res.Published = len(bets)
			}

			return writeJSON(cmd, res)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Fixture JSON file (prediction input)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish detected value bets to Redis Streams")
	cmd.Flags().BoolVar(&fromDB, "strength-from-db", false, "Fit team strengths from stored match results")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

// bestPrices takes the highest price per outcome across lines, in the order
// outcomes are first seen.
func bestPrices(lines []consensus.BookmakerLine) odds.Outcomes {
	var out odds.Outcomes
	index := map[string]int{}
	for _, line := range lines {
		for _, e := range prediction.CanonicalOutcomes(line.Odds) {
			if i, ok := index[e.Label]; ok {
				if e.Value > out[i].Value {
					out[i].Value = e.Value
				}
				continue
			}
			index[e.Label] = len(out)
			out = append(out, e)
		}
	}
	return out
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
