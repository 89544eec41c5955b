package value

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gfps/internal/logger"
	"github.com/yourusername/gfps/internal/metrics"
	"github.com/yourusername/gfps/internal/odds"
)

// betNamespace seeds deterministic value-bet IDs.
var betNamespace = uuid.MustParse("6f1d8a52-3c4e-4b7a-9a0e-5d2f8c1b7e43")

// Fixture identifies the match a market belongs to.
type Fixture struct {
	ID       string `json:"fixture_id"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	Market   string `json:"market"`
}

// Label returns "Home vs Away".
func (f Fixture) Label() string {
	return f.HomeTeam + " vs " + f.AwayTeam
}

// ValueBet is a priced selection whose expected value clears the threshold.
type ValueBet struct {
	ID                uuid.UUID `json:"id"`
	FixtureID         string    `json:"fixture_id"`
	Match             string    `json:"match"`
	Market            string    `json:"market"`
	MarketKey         string    `json:"market_key"`
	Outcome           string    `json:"outcome"`
	Odds              float64   `json:"odds"`
	ModelProbability  float64   `json:"model_probability"`
	MarketProbability float64   `json:"market_probability"`
	ExpectedValue     float64   `json:"expected_value"`
	Edge              float64   `json:"edge"`
	Kelly             float64   `json:"kelly"`
	Stake             float64   `json:"stake"`
	DetectedAt        time.Time `json:"detected_at"`
}

// Scanner selects value bets from a fixture's probabilities and prices.
type Scanner struct {
	MinExpectedValue float64
	KellyFraction    float64
	MaxStakeFraction float64
	Bankroll         float64
	MinOdds          float64
	MaxOdds          float64

	log *logger.ValueLogger
	now func() time.Time
}

// NewScanner creates a scanner staking kellyFraction of Kelly, capped at
// maxStakeFraction of bankroll. A zero bankroll reports stakes as fractions.
func NewScanner(minEV, kellyFraction, maxStakeFraction, bankroll float64, log *logrus.Logger) *Scanner {
	return &Scanner{
		MinExpectedValue: minEV,
		KellyFraction:    kellyFraction,
		MaxStakeFraction: maxStakeFraction,
		Bankroll:         bankroll,
		MinOdds:          1.01,
		log:              logger.NewValueLogger(log),
		now:              time.Now,
	}
}

// Scan evaluates every outcome that has both a probability and a price,
// keeps those with EV >= MinExpectedValue and returns them by EV descending.
// marketProbs may be nil, in which case the margin-inclusive 1/odds is used.
// A scanner whose KellyFraction is not positive is rejected.
func (s *Scanner) Scan(fx Fixture, probs, prices, marketProbs odds.Outcomes) ([]ValueBet, error) {
	if !(s.KellyFraction > 0) {
		return nil, fmt.Errorf("kelly fraction multiplier must be positive, got %v", s.KellyFraction)
	}
	detected := s.now().UTC()
	var bets []ValueBet
	evaluated := 0

	for _, e := range probs {
		price, ok := prices.Get(e.Label)
		if !ok {
			continue
		}
		if err := s.validateOdds(price); err != nil {
			continue
		}
		evaluated++

		ev, err := ExpectedValue(e.Value, price)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Label, err)
		}
		if ev < s.MinExpectedValue {
			continue
		}

		marketProb, ok := marketProbs.Get(e.Label)
		if !ok {
			marketProb = 1.0 / price
		}
		edge, err := Edge(e.Value, marketProb)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Label, err)
		}
		kelly, err := KellyFraction(e.Value, price)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Label, err)
		}

		bet := ValueBet{
			FixtureID:         fx.ID,
			Match:             fx.Label(),
			Market:            MarketLabel(fx.Market, e.Label),
			MarketKey:         MarketKey(fx.Market),
			Outcome:           e.Label,
			Odds:              price,
			ModelProbability:  e.Value,
			MarketProbability: marketProb,
			ExpectedValue:     ev,
			Edge:              edge,
			Kelly:             kelly,
			Stake:             s.stake(kelly),
			DetectedAt:        detected,
		}
		bet.ID = uuid.NewSHA1(betNamespace, []byte(fmt.Sprintf("%s|%s|%s|%.4f", fx.ID, bet.Market, bet.Outcome, price)))
		bets = append(bets, bet)
	}

	sort.SliceStable(bets, func(i, j int) bool { return bets[i].ExpectedValue > bets[j].ExpectedValue })

	for _, b := range bets {
		metrics.RecordValueBet(fx.Market, b.ExpectedValue)
		s.log.LogValueBet(b.ID.String(), b.Match, b.Market, b.Outcome, b.Odds, b.ModelProbability, b.ExpectedValue, b.Stake)
	}
	s.log.LogScan(fx.Label(), evaluated, len(bets), s.MinExpectedValue)
	return bets, nil
}

func (s *Scanner) validateOdds(price float64) error {
	if err := checkOdds(price); err != nil {
		return err
	}
	if s.MinOdds > 0 && price < s.MinOdds {
		return fmt.Errorf("odds below minimum")
	}
	if s.MaxOdds > 0 && price > s.MaxOdds {
		return fmt.Errorf("odds above maximum")
	}
	return nil
}

// stake applies the Kelly multiplier and the per-selection cap, in bankroll
// units when a bankroll is set.
func (s *Scanner) stake(kelly float64) float64 {
	stake := kelly * s.KellyFraction
	if s.MaxStakeFraction > 0 {
		stake = math.Min(stake, s.MaxStakeFraction)
	}
	if s.Bankroll > 0 {
		stake *= s.Bankroll
	}
	return stake
}

// MarketKey normalises a market name for use in keys: lower case, spaces
// and slashes as underscores, empty as "1x2".
func MarketKey(market string) string {
	m := strings.ToLower(strings.TrimSpace(market))
	if m == "" {
		return "1x2"
	}
	return strings.NewReplacer(" ", "_", "/", "_").Replace(m)
}

// MarketLabel renders "Match Winner - Home" style labels.
func MarketLabel(market, outcome string) string {
	if market == "" || strings.EqualFold(market, "1x2") {
		market = "Match Winner"
	}
	return market + " - " + displayOutcome(outcome)
}

func displayOutcome(label string) string {
	switch strings.ToLower(label) {
	case "home", "1":
		return "Home"
	case "draw", "x":
		return "Draw"
	case "away", "2":
		return "Away"
	}
	if label == "" {
		return label
	}
	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:]
}
