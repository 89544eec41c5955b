// Package live adjusts pre-match 1X2 probabilities and scoring rates for
// in-play events: goals, cards, elapsed time and momentum.
package live

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/yourusername/gfps/internal/goals"
	"github.com/yourusername/gfps/internal/odds"
)

// Side is the team an event belongs to.
type Side string

const (
	Home Side = "home"
	Away Side = "away"
)

// ErrUnknownEvent is returned for events Replay cannot apply.
var ErrUnknownEvent = errors.New("unknown in-play event")

const (
	redCardFactor    = 0.15
	yellowCardFactor = 0.05
	drawDrift        = 0.05
	momentumScale    = 5.0
	lambdaSwing      = 0.3
)

// goalLikelihood is P(goal by the scoring side | final outcome), up to scale,
// ordered home, draw, away.
var goalLikelihood = map[Side][3]float64{
	Home: {1.6, 0.6, 0.2},
	Away: {0.2, 0.6, 1.6},
}

func checkSide(s Side) error {
	if s != Home && s != Away {
		return fmt.Errorf("%w: side %q", ErrUnknownEvent, s)
	}
	return nil
}

func normalize(home, draw, away float64) (goals.OneXTwo, error) {
	for _, p := range []float64{home, draw, away} {
		if p < 0 || math.IsNaN(p) {
			return goals.OneXTwo{}, fmt.Errorf("%w: probability %v", odds.ErrDegenerateProbability, p)
		}
	}
	total := home + draw + away
	if !(total > 0) || math.IsInf(total, 0) {
		return goals.OneXTwo{}, fmt.Errorf("%w: total mass %v", odds.ErrDegenerateProbability, total)
	}
	return goals.OneXTwo{Home: home / total, Draw: draw / total, Away: away / total}, nil
}

// GoalUpdate applies Bayes' rule after a goal by scorer.
func GoalUpdate(p goals.OneXTwo, scorer Side) (goals.OneXTwo, error) {
	if err := checkSide(scorer); err != nil {
		return goals.OneXTwo{}, err
	}
	l := goalLikelihood[scorer]
	return normalize(p.Home*l[0], p.Draw*l[1], p.Away*l[2])
}

// CardUpdate shifts win probability away from the carded side, by 15% for a
// red card and 5% for a yellow. The draw is only touched by renormalization.
func CardUpdate(p goals.OneXTwo, team Side, red bool) (goals.OneXTwo, error) {
	if err := checkSide(team); err != nil {
		return goals.OneXTwo{}, err
	}
	f := yellowCardFactor
	if red {
		f = redCardFactor
	}
	if team == Home {
		return normalize(p.Home*(1-f), p.Draw, p.Away*(1+f))
	}
	return normalize(p.Home*(1+f), p.Draw, p.Away*(1-f))
}

// TimeDecayAdjustment adds up to 0.05 to the draw as the match runs down,
// scaled by 1 - ExponentialDecay(elapsed, halfLife), then renormalizes.
func TimeDecayAdjustment(p goals.OneXTwo, elapsedMinutes, halfLife float64) (goals.OneXTwo, error) {
	decay, err := ExponentialDecay(elapsedMinutes, halfLife)
	if err != nil {
		return goals.OneXTwo{}, err
	}
	return normalize(p.Home, p.Draw+(1-decay)*drawDrift, p.Away)
}

// MomentumIndex scores recent events from the home side's view: goals count
// 2, red cards 1 against the carded side. The sum is scaled by 1/5 and
// clipped to [-1, 1]. Other events are ignored.
func MomentumIndex(events []string) float64 {
	score := 0.0
	for _, ev := range events {
		switch {
		case strings.HasPrefix(ev, "home_goal"):
			score += 2
		case strings.HasPrefix(ev, "away_goal"):
			score -= 2
		case strings.HasPrefix(ev, "home_red"):
			score--
		case strings.HasPrefix(ev, "away_red"):
			score++
		}
	}
	return math.Max(-1, math.Min(1, score/momentumScale))
}

// AdjustLambda scales a scoring rate by up to ±30% with momentum.
func AdjustLambda(baseLambda, momentum float64) float64 {
	return baseLambda * (1 + lambdaSwing*momentum)
}

// Event is a parsed in-play event such as "home_goal" or "away_red".
type Event struct {
	Side Side   `json:"side"`
	Kind string `json:"kind"`
}

// ParseEvent splits "<side>_<goal|red|yellow>".
func ParseEvent(s string) (Event, error) {
	side, kind, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "_")
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, s)
	}
	ev := Event{Side: Side(side), Kind: kind}
	if err := checkSide(ev.Side); err != nil {
		return Event{}, err
	}
	switch kind {
	case "goal", "red", "yellow":
		return ev, nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// State is a match in progress.
type State struct {
	Probs          goals.OneXTwo `json:"probs"`
	ElapsedMinutes float64       `json:"elapsed_minutes"`
	HomeGoals      int           `json:"home_goals"`
	AwayGoals      int           `json:"away_goals"`
}

// Replay applies events in order to the pre-match state, then the time
// decay for the elapsed minutes. Goals also advance the score.
func Replay(s State, events []string, halfLife float64) (State, error) {
	out := s
	for _, raw := range events {
		ev, err := ParseEvent(raw)
		if err != nil {
			return State{}, err
		}
		switch ev.Kind {
		case "goal":
			out.Probs, err = GoalUpdate(out.Probs, ev.Side)
			if ev.Side == Home {
				out.HomeGoals++
			} else {
				out.AwayGoals++
			}
		case "red":
			out.Probs, err = CardUpdate(out.Probs, ev.Side, true)
		case "yellow":
			out.Probs, err = CardUpdate(out.Probs, ev.Side, false)
		}
		if err != nil {
			return State{}, err
		}
	}

	probs, err := TimeDecayAdjustment(out.Probs, out.ElapsedMinutes, halfLife)
	if err != nil {
		return State{}, err
	}
	out.Probs = probs
	return out, nil
}
