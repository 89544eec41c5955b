package prediction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/gfps/internal/goals"
	"github.com/yourusername/gfps/internal/odds"
	"github.com/yourusername/gfps/internal/strength"
)

var (
	// ErrUnsupportedMarket indicates a market the goal model cannot price.
	ErrUnsupportedMarket = errors.New("unsupported market")

	// ErrUnknownOutcome indicates an outcome label that does not belong to
	// the routed market.
	ErrUnknownOutcome = errors.New("unknown outcome for market")

	// ErrMissingOutcome indicates a 1X2 price set without home, draw and away.
	ErrMissingOutcome = errors.New("missing 1X2 outcome")
)

// MarketKind is the goal-model pathway a market routes to.
type MarketKind string

const (
	MarketOneXTwo   MarketKind = "1x2"
	MarketOverUnder MarketKind = "over_under"
	MarketBTTS      MarketKind = "btts"
)

// DefaultTotalsLine is used when no line can be read from the outcome text.
const DefaultTotalsLine = 2.5

var totalsLines = []float64{0.5, 1.5, 2.5, 3.5, 4.5}

// MarketRoute is the result of classifying a market name.
type MarketRoute struct {
	Kind MarketKind `json:"kind"`
	Line float64    `json:"line,omitempty"`
}

// ClassifyMarket routes a market name by case-insensitive substring match.
// Totals markets read their line from the outcome text, first match among
// 0.5..4.5 wins, defaulting to 2.5.
func ClassifyMarket(market, outcome string) (MarketRoute, error) {
	m := strings.ToLower(market)
	switch {
	case strings.Contains(m, "over") || strings.Contains(m, "under") || strings.Contains(m, "total goals"):
		return MarketRoute{Kind: MarketOverUnder, Line: totalsLine(outcome)}, nil
	case strings.Contains(m, "btts") || strings.Contains(m, "both teams"):
		return MarketRoute{Kind: MarketBTTS}, nil
	case strings.Contains(m, "1x2") || strings.Contains(m, "match winner") || strings.Contains(m, "result"):
		return MarketRoute{Kind: MarketOneXTwo}, nil
	}
	return MarketRoute{}, fmt.Errorf("%w: %q", ErrUnsupportedMarket, market)
}

func totalsLine(outcome string) float64 {
	for _, line := range totalsLines {
		if strings.Contains(outcome, fmt.Sprintf("%.1f", line)) {
			return line
		}
	}
	return DefaultTotalsLine
}

// CanonicalOutcome maps bookmaker labels to home, draw and away.
func CanonicalOutcome(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "1", "home", "h":
		return "home"
	case "x", "draw", "d":
		return "draw"
	case "2", "away", "a":
		return "away"
	}
	return label
}

// CanonicalOutcomes relabels a 1X2 price set.
func CanonicalOutcomes(prices odds.Outcomes) odds.Outcomes {
	out := make(odds.Outcomes, len(prices))
	for i, e := range prices {
		out[i] = odds.Outcome{Label: CanonicalOutcome(e.Label), Value: e.Value}
	}
	return out
}

// MarketInput asks for the model probability of one market outcome.
type MarketInput struct {
	FixtureID string           `json:"fixture_id"`
	League    string           `json:"league"`
	HomeTeam  string           `json:"home_team"`
	AwayTeam  string           `json:"away_team"`
	Market    string           `json:"market"`
	Outcome   string           `json:"outcome"`
	Context   strength.Context `json:"context"`
}

// MarketPrediction is the model probability of one outcome.
type MarketPrediction struct {
	FixtureID    string      `json:"fixture_id"`
	Market       string      `json:"market"`
	Outcome      string      `json:"outcome"`
	Route        MarketRoute `json:"route"`
	Probability  float64     `json:"probability"`
	LambdaHome   float64     `json:"lambda_home"`
	LambdaAway   float64     `json:"lambda_away"`
	ModelVersion string      `json:"model_version"`
}

// PredictMarket prices one outcome from a persisted stats context. Absent
// context fields take neutral defaults, so an unseen fixture still prices.
func (e *Engine) PredictMarket(in MarketInput) (*MarketPrediction, error) {
	route, err := ClassifyMarket(in.Market, in.Outcome)
	if err != nil {
		return nil, err
	}

	lh, la := in.Context.Resolve().Lambdas()
	params, err := goals.NewParams(max(lh, e.cfg.MinLambda), max(la, e.cfg.MinLambda))
	if err != nil {
		return nil, err
	}
	pred, err := goals.DixonColes(params, e.cfg.Rho, e.cfg.MaxGoals)
	if err != nil {
		return nil, err
	}

	prob, err := outcomeProbability(pred, route, in.Outcome)
	if err != nil {
		return nil, err
	}
	return &MarketPrediction{
		FixtureID:    in.FixtureID,
		Market:       in.Market,
		Outcome:      in.Outcome,
		Route:        route,
		Probability:  prob,
		LambdaHome:   params.LambdaHome,
		LambdaAway:   params.LambdaAway,
		ModelVersion: e.cfg.ModelVersion,
	}, nil
}

func outcomeProbability(pred *goals.Prediction, route MarketRoute, outcome string) (float64, error) {
	o := strings.ToLower(strings.TrimSpace(outcome))
	switch route.Kind {
	case MarketOverUnder:
		over, under := pred.Matrix.OverUnder(route.Line)
		switch {
		case strings.HasPrefix(o, "over"):
			return over, nil
		case strings.HasPrefix(o, "under"):
			return under, nil
		}
	case MarketBTTS:
		yes, no := pred.Matrix.BothTeamsToScore()
		switch o {
		case "yes", "gg", "y":
			return yes, nil
		case "no", "ng", "n":
			return no, nil
		}
	case MarketOneXTwo:
		switch CanonicalOutcome(o) {
		case "home":
			return pred.OneXTwo.Home, nil
		case "draw":
			return pred.OneXTwo.Draw, nil
		case "away":
			return pred.OneXTwo.Away, nil
		}
	}
	return 0, fmt.Errorf("%w: %q in %s", ErrUnknownOutcome, outcome, route.Kind)
}
