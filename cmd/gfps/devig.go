package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/gfps/internal/devig"
	"github.com/yourusername/gfps/internal/odds"
)

type devigResult struct {
	Method    devig.Method  `json:"method"`
	Implied   odds.Outcomes `json:"implied"`
	Fair      odds.Outcomes `json:"fair"`
	Overround float64       `json:"overround"`
	Margin    float64       `json:"margin_pct"`
	Entropy   float64       `json:"entropy"`
}

func newDevigCmd(a *app) *cobra.Command {
	var (
		quotes string
		method string
	)

	cmd := &cobra.Command{
		Use:     "devig",
		Short:   "Remove the bookmaker margin from a set of prices",
		Example: `  gfps devig --odds home=1.90,draw=3.50,away=4.00 --method shin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prices, err := odds.ParseOutcomes(quotes)
			if err != nil {
				return err
			}
			m := devig.Method(method)
			if method == "" {
				m = devig.Method(a.cfg.Engine.DevigMethod)
			}
			remover, err := devig.New(m)
			if err != nil {
				return err
			}

			implied, err := odds.DecimalToImplied(prices)
			if err != nil {
				return err
			}
			fair, err := remover.Remove(prices)
			if err != nil {
				return err
			}
			overround, err := odds.Overround(prices)
			if err != nil {
				return err
			}
			margin, err := odds.MarginPercentage(prices)
			if err != nil {
				return err
			}
			entropy, err := odds.MarketEntropy(fair)
			if err != nil {
				return err
			}

			return writeJSON(cmd, devigResult{
				Method:    m,
				Implied:   implied,
				Fair:      fair,
				Overround: overround,
				Margin:    margin,
				Entropy:   entropy,
			})
		},
	}

	cmd.Flags().StringVar(&quotes, "odds", "", "Prices as label=price pairs; decimal, fractional (5/2) or American (+150)")
	cmd.Flags().StringVar(&method, "method", "", "overround, power or shin (default from config)")
	_ = cmd.MarkFlagRequired("odds")
	return cmd
}
