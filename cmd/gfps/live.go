package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/gfps/internal/goals"
	"github.com/yourusername/gfps/internal/live"
	"github.com/yourusername/gfps/internal/odds"
	"github.com/yourusername/gfps/internal/prediction"
)

type liveResult struct {
	State         live.State `json:"state"`
	Momentum      float64    `json:"momentum"`
	LambdaHome    float64    `json:"lambda_home,omitempty"`
	LambdaAway    float64    `json:"lambda_away,omitempty"`
	TimeRemaining float64    `json:"time_remaining"`
}

func newLiveCmd(a *app) *cobra.Command {
	var (
		probs      string
		minute     float64
		events     []string
		halfLife   float64
		lambdaHome float64
		lambdaAway float64
	)

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Update pre-match 1X2 probabilities for in-play events",
		Example: `  gfps live --probs home=0.45,draw=0.28,away=0.27 --minute 60 --event home_goal --event away_red
  gfps live --probs 1=0.5,X=0.3,2=0.2 --minute 20 --event home_goal --lambda-home 1.4 --lambda-away 1.1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := odds.ParseProbabilities(probs)
			if err != nil {
				return err
			}
			pre, err := oneXTwo(prediction.CanonicalOutcomes(parsed))
			if err != nil {
				return err
			}

			state, err := live.Replay(live.State{Probs: pre, ElapsedMinutes: minute}, events, halfLife)
			if err != nil {
				return err
			}
			remaining, err := live.LinearDecay(minute, live.RegulationMinutes)
			if err != nil {
				return err
			}

			res := liveResult{State: state, Momentum: live.MomentumIndex(events), TimeRemaining: remaining}
			if lambdaHome > 0 {
				res.LambdaHome = live.AdjustLambda(lambdaHome, res.Momentum)
			}
			if lambdaAway > 0 {
				res.LambdaAway = live.AdjustLambda(lambdaAway, -res.Momentum)
			}
			a.log.WithField("events", len(events)).Debug("In-play update applied")
			return writeJSON(cmd, res)
		},
	}

	cmd.Flags().StringVar(&probs, "probs", "", "Pre-match probabilities as home=p,draw=p,away=p")
	cmd.Flags().Float64Var(&minute, "minute", 0, "Minutes played")
	cmd.Flags().StringArrayVar(&events, "event", nil, "Event in order: home_goal, away_red, home_yellow, ...")
	cmd.Flags().Float64Var(&halfLife, "half-life", live.DefaultHalfLife, "Draw-drift half-life in minutes")
	cmd.Flags().Float64Var(&lambdaHome, "lambda-home", 0, "Home scoring rate to adjust for momentum")
	cmd.Flags().Float64Var(&lambdaAway, "lambda-away", 0, "Away scoring rate to adjust for momentum")
	_ = cmd.MarkFlagRequired("probs")
	return cmd
}

func oneXTwo(p odds.Outcomes) (goals.OneXTwo, error) {
	var out goals.OneXTwo
	for _, label := range []string{"home", "draw", "away"} {
		if _, ok := p.Get(label); !ok {
			return out, fmt.Errorf("probabilities need home, draw and away; got %v", p.Labels())
		}
	}
	out.Home, _ = p.Get("home")
	out.Draw, _ = p.Get("draw")
	out.Away, _ = p.Get("away")
	return out, nil
}
