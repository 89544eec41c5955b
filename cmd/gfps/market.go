package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/gfps/internal/prediction"
	"github.com/yourusername/gfps/internal/strength"
)

func newMarketCmd(a *app) *cobra.Command {
	var (
		in     prediction.MarketInput
		season string
		fromDB bool
	)

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Model probability of one outcome in a 1X2, totals or BTTS market",
		Example: `  gfps market --league 39 --home Arsenal --away Chelsea --market "Over/Under" --outcome "Over 2.5"
  gfps market --league 39 --home Arsenal --away Chelsea --market BTTS --outcome yes --stats-from-db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			in.Context = strength.Context{}
			if fromDB {
				db, repos, err := a.repositories(ctx)
				if err != nil {
					return err
				}
				defer db.Close()
				if season == "" {
					season = a.cfg.Strength.Season
				}
				statsCtx, err := repos.TeamStats.GetContext(ctx, in.League, in.HomeTeam, in.AwayTeam, season)
				if err != nil {
					return err
				}
				in.Context = statsCtx
			}

			engine, err := a.engine()
			if err != nil {
				return err
			}
			out, err := engine.PredictMarket(in)
			if err != nil {
				return err
			}
			return writeJSON(cmd, out)
		},
	}

	cmd.Flags().StringVar(&in.FixtureID, "fixture", "", "Fixture identifier")
	cmd.Flags().StringVar(&in.League, "league", "", "League identifier")
	cmd.Flags().StringVar(&in.HomeTeam, "home", "", "Home team")
	cmd.Flags().StringVar(&in.AwayTeam, "away", "", "Away team")
	cmd.Flags().StringVar(&in.Market, "market", "1x2", "Market name")
	cmd.Flags().StringVar(&in.Outcome, "outcome", "", "Outcome label")
	cmd.Flags().StringVar(&season, "season", "", "Season for the stats lookup (default from config)")
	cmd.Flags().BoolVar(&fromDB, "stats-from-db", false, "Read the stats context from the team_stats table")
	_ = cmd.MarkFlagRequired("outcome")
	return cmd
}
