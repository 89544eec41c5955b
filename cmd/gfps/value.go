package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/gfps/internal/value"
)

type valueResult struct {
	Probability     float64 `json:"probability"`
	Odds            float64 `json:"odds"`
	ExpectedValue   float64 `json:"expected_value"`
	Edge            float64 `json:"edge"`
	Kelly           float64 `json:"kelly"`
	FractionalKelly float64 `json:"fractional_kelly"`
	Stake           float64 `json:"stake,omitempty"`
	IsValue         bool    `json:"is_value"`
}

func newValueCmd(a *app) *cobra.Command {
	var (
		prob     float64
		price    float64
		fraction float64
		bankroll float64
	)

	cmd := &cobra.Command{
		Use:     "value",
		Short:   "Expected value and Kelly stake of a single selection",
		Example: `  gfps value --prob 0.55 --odds 2.10 --fraction 0.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("fraction") {
				fraction = a.cfg.Value.KellyFraction
			}
			if !cmd.Flags().Changed("bankroll") {
				bankroll = a.cfg.Value.Bankroll
			}

			ev, err := value.ExpectedValue(prob, price)
			if err != nil {
				return err
			}
			edge, err := value.Edge(prob, 1/price)
			if err != nil {
				return err
			}
			kelly, err := value.KellyFraction(prob, price)
			if err != nil {
				return err
			}
			fk, err := value.FractionalKelly(prob, price, fraction)
			if err != nil {
				return fmt.Errorf("fraction: %w", err)
			}

			res := valueResult{
				Probability:     prob,
				Odds:            price,
				ExpectedValue:   ev,
				Edge:            edge,
				Kelly:           kelly,
				FractionalKelly: fk,
				IsValue:         ev >= a.cfg.Value.MinExpectedValue,
			}
			if bankroll > 0 {
				res.Stake = fk * bankroll
			}
			return writeJSON(cmd, res)
		},
	}

	cmd.Flags().Float64Var(&prob, "prob", 0, "Model probability of the outcome")
	cmd.Flags().Float64Var(&price, "odds", 0, "Decimal odds offered")
	cmd.Flags().Float64Var(&fraction, "fraction", 0.5, "Kelly multiplier")
	cmd.Flags().Float64Var(&bankroll, "bankroll", 0, "Bankroll for the stake figure")
	_ = cmd.MarkFlagRequired("prob")
	_ = cmd.MarkFlagRequired("odds")
	return cmd
}
