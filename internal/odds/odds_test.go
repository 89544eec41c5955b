package odds

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeWay() Outcomes {
	return Outcomes{{"home", 1.90}, {"draw", 3.50}, {"away", 4.00}}
}

func TestDecimalToImplied(t *testing.T) {
	implied, err := DecimalToImplied(threeWay())
	require.NoError(t, err)

	assert.Equal(t, []string{"home", "draw", "away"}, implied.Labels())
	assert.InDelta(t, 0.526, implied[0].Value, 1e-3)
	assert.InDelta(t, 0.286, implied[1].Value, 1e-3)
	assert.InDelta(t, 0.250, implied[2].Value, 1e-3)
	assert.InDelta(t, 1.062, implied.Sum(), 1e-3)
}

func TestDecimalToImpliedRejectsBadPrices(t *testing.T) {
	for _, price := range []float64{1.0, 0.5, -2, math.Inf(1)} {
		_, err := DecimalToImplied(Outcomes{{"home", price}})
		assert.ErrorIs(t, err, ErrInvalidOdds, "price %v", price)
	}
}

func TestNormalizeProbabilities(t *testing.T) {
	implied, err := DecimalToImplied(threeWay())
	require.NoError(t, err)

	fair, err := NormalizeProbabilities(implied)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fair.Sum(), 1e-9)
	assert.InDelta(t, 0.496, fair[0].Value, 1e-3)
	assert.InDelta(t, 0.269, fair[1].Value, 1e-3)
	assert.InDelta(t, 0.235, fair[2].Value, 1e-3)
}

func TestNormalizeProbabilitiesDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		probs Outcomes
	}{
		{"empty", Outcomes{}},
		{"all zero", Outcomes{{"a", 0}, {"b", 0}}},
		{"negative entry", Outcomes{{"a", 0.8}, {"b", -0.1}}},
		{"negative total", Outcomes{{"a", -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeProbabilities(tt.probs)
			assert.ErrorIs(t, err, ErrDegenerateProbability)
			assert.ErrorIs(t, err, ErrNonPositiveMass)
		})
	}
}

func TestAmericanAndFractional(t *testing.T) {
	d, err := AmericanToDecimal(200)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, d, 1e-12)

	d, err = AmericanToDecimal(-150)
	require.NoError(t, err)
	assert.InDelta(t, 1.6667, d, 1e-4)

	_, err = AmericanToDecimal(0)
	assert.ErrorIs(t, err, ErrInvalidOdds)

	d, err = FractionalToDecimal(5, 2)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, d, 1e-12)

	_, err = FractionalToDecimal(5, 0)
	assert.ErrorIs(t, err, ErrInvalidOdds)

	implied, err := ImpliedFromFractional([]string{"home", "away"}, []Fraction{{1, 1}, {1, 1}})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, implied.Sum(), 1e-12)

	implied, err = ImpliedFromAmerican(Outcomes{{"home", -110}, {"away", -110}})
	require.NoError(t, err)
	assert.InDelta(t, 1.0476, implied.Sum(), 1e-4)
}

func TestMarketEntropy(t *testing.T) {
	h, err := MarketEntropy(Outcomes{{"a", 1}, {"b", 1}, {"c", 1}})
	require.NoError(t, err)
	assert.InDelta(t, math.Log(3), h, 1e-12)

	h, err = MarketEntropy(Outcomes{{"a", 1}, {"b", 0}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, h)
}

func TestPriceSpread(t *testing.T) {
	assert.Equal(t, 0.0, PriceSpread(nil))
	assert.InDelta(t, 0.25, PriceSpread([]Quote{{"home", 1.90}, {"home", 2.15}, {"home", 2.0}}), 1e-12)
}

func TestOverroundAndMargin(t *testing.T) {
	over, err := Overround(threeWay())
	require.NoError(t, err)
	assert.InDelta(t, 0.0620, over, 1e-3)

	margin, err := MarginPercentage(threeWay())
	require.NoError(t, err)
	assert.InDelta(t, 0.0620/1.0620, margin, 1e-3)

	under, err := Overround(Outcomes{{"a", 2.2}, {"b", 2.2}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, under)
}

func TestParseQuote(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"2.10", 2.10},
		{" 5/2 ", 3.5},
		{"+150", 2.5},
		{"-200", 1.5},
	}
	for _, tt := range tests {
		got, err := ParseQuote(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-12, tt.in)
	}

	for _, bad := range []string{"1.0", "abc", "3/0", "0.99"} {
		_, err := ParseQuote(bad)
		assert.ErrorIs(t, err, ErrInvalidOdds, bad)
	}
}

func TestParseOutcomes(t *testing.T) {
	prices, err := ParseOutcomes("home=1.90, draw=7/2,away=4.00")
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "draw", "away"}, prices.Labels())
	assert.InDelta(t, 4.5, prices[1].Value, 1e-12)

	_, err = ParseOutcomes("home:1.90")
	assert.ErrorIs(t, err, ErrInvalidOdds)
}

func TestParseProbabilities(t *testing.T) {
	probs, err := ParseProbabilities("home=0.45,draw=0.28, away=0.27")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.45, 0.28, 0.27}, probs.Values())

	for _, bad := range []string{"home=1.2", "home=-0.1", "home=abc", "home"} {
		_, err := ParseProbabilities(bad)
		assert.ErrorIs(t, err, ErrInvalidProbability, bad)
	}
}

func TestOutcomesJSONKeepsOrder(t *testing.T) {
	var o Outcomes
	require.NoError(t, json.Unmarshal([]byte(`{"away": 4.0, "home": 1.9, "draw": 3.5}`), &o))
	assert.Equal(t, []string{"away", "home", "draw"}, o.Labels())

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, `{"away":4,"home":1.9,"draw":3.5}`, string(data))
	assert.Equal(t, `{"away":4,"home":1.9,"draw":3.5}`, string(data))

	require.NoError(t, json.Unmarshal([]byte(`[{"label":"over","value":1.8}]`), &o))
	assert.Equal(t, Outcomes{{"over", 1.8}}, o)
}

func TestFromMapCanonicalOrder(t *testing.T) {
	o := FromMap(map[string]float64{"away": 4, "other": 9, "draw": 3.5, "home": 1.9, "alpha": 7})
	assert.Equal(t, []string{"home", "draw", "away", "alpha", "other"}, o.Labels())
}

func TestLineMovement(t *testing.T) {
	obs := []LineObservation{
		{Minute: 30, Price: 2.0},
		{Minute: 0, Price: 2.5},
		{Minute: 10, Price: 1.0},
		{Minute: 60, Price: 1.6},
	}
	path := ImpliedPath(obs)
	require.Len(t, path, 3)
	assert.InDelta(t, 0.4, path[0], 1e-12)
	assert.InDelta(t, 0.625, path[2], 1e-12)

	assert.InDelta(t, 0.225, Drift(obs), 1e-12)
	assert.Greater(t, Volatility(obs), 0.0)
	assert.Equal(t, 0.0, Volatility(nil))
	assert.Equal(t, 0.0, Drift(obs[:1]))

	clv, err := ClosingLineValue(2.5, 2.0, 0.55)
	require.NoError(t, err)
	assert.InDelta(t, -0.1, clv, 1e-12)

	_, err = ClosingLineValue(1.0, 2.0, 0.5)
	assert.ErrorIs(t, err, ErrInvalidOdds)
}
