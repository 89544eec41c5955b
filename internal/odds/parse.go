package odds

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// ParseDecimalOdds parses a decimal price such as "2.10" exactly before
// converting it, so "1.0000001" and "1.0" are told apart reliably.
func ParseDecimalOdds(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidOdds, s, err)
	}
	if d.LessThanOrEqual(one) {
		return 0, fmt.Errorf("%w: %s, decimal odds must exceed 1.0", ErrInvalidOdds, d.String())
	}
	return d.InexactFloat64(), nil
}

// ParseFractional parses "5/2" style odds into a decimal price.
func ParseFractional(s string) (float64, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return 0, fmt.Errorf("%w: %q is not fractional", ErrInvalidOdds, s)
	}
	n, err := decimal.NewFromString(strings.TrimSpace(num))
	if err != nil {
		return 0, fmt.Errorf("%w: numerator %q: %v", ErrInvalidOdds, num, err)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(den))
	if err != nil {
		return 0, fmt.Errorf("%w: denominator %q: %v", ErrInvalidOdds, den, err)
	}
	if !d.IsPositive() || !n.IsPositive() {
		return 0, fmt.Errorf("%w: fractional odds %s", ErrInvalidOdds, s)
	}
	return one.Add(n.DivRound(d, 16)).InexactFloat64(), nil
}

// ParseAmerican parses "+150" / "-120" moneyline odds into a decimal price.
func ParseAmerican(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "+"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidOdds, s, err)
	}
	return AmericanToDecimal(d.InexactFloat64())
}

// ParseQuote detects the quote format: "a/b" is fractional, a leading sign
// means American, anything else is decimal.
func ParseQuote(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, "/"):
		return ParseFractional(s)
	case strings.HasPrefix(s, "+"), strings.HasPrefix(s, "-"):
		return ParseAmerican(s)
	default:
		return ParseDecimalOdds(s)
	}
}

// ParseOutcomes parses "home=1.90,draw=3.50,away=4.00" into ordered prices.
func ParseOutcomes(s string) (Outcomes, error) {
	return parsePairs(s, ErrInvalidOdds, ParseQuote)
}

// ParseProbabilities parses "home=0.45,draw=0.28,away=0.27". Each value must
// lie in [0, 1].
func ParseProbabilities(s string) (Outcomes, error) {
	return parsePairs(s, ErrInvalidProbability, parseProbability)
}

func parseProbability(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidProbability, s, err)
	}
	if d.IsNegative() || d.GreaterThan(one) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidProbability, d.String())
	}
	return d.InexactFloat64(), nil
}

func parsePairs(s string, sentinel error, parse func(string) (float64, error)) (Outcomes, error) {
	out := Outcomes{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, raw, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not label=value", sentinel, part)
		}
		v, err := parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", strings.TrimSpace(label), err)
		}
		out = append(out, Outcome{Label: strings.TrimSpace(label), Value: v})
	}
	return out, nil
}
