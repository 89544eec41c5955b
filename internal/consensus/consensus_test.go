package consensus

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gfps/internal/devig"
	"github.com/yourusername/gfps/internal/odds"
)

func line(name string, weight float64, home, draw, away float64) BookmakerLine {
	return BookmakerLine{
		Name:   name,
		Weight: weight,
		Odds:   odds.Outcomes{{Label: "home", Value: home}, {Label: "draw", Value: draw}, {Label: "away", Value: away}},
	}
}

func TestProbabilitiesSingleLineMatchesDevig(t *testing.T) {
	l := line("book", 1, 1.90, 3.50, 4.00)
	got, err := Probabilities([]BookmakerLine{l})
	require.NoError(t, err)

	want, err := devig.FairFromOverround(l.Odds)
	require.NoError(t, err)
	for i := range want {
		assert.InDelta(t, want[i].Value, got[i].Value, 1e-12)
	}
}

func TestProbabilitiesWeighting(t *testing.T) {
	a := line("a", 3, 2.0, 3.4, 3.8)
	b := line("b", 1, 1.8, 3.6, 4.4)

	got, err := Probabilities([]BookmakerLine{a, b})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got.Sum(), 1e-9)

	fa, _ := devig.FairFromOverround(a.Odds)
	fb, _ := devig.FairFromOverround(b.Odds)
	assert.InDelta(t, (3*fa[0].Value+fb[0].Value)/4, got[0].Value, 1e-9)
}

func TestProbabilitiesNegativeWeightClamped(t *testing.T) {
	a := line("a", 1, 2.0, 3.4, 3.8)
	b := line("b", -5, 1.2, 8.0, 15.0)

	got, err := Probabilities([]BookmakerLine{a, b})
	require.NoError(t, err)
	fa, _ := devig.FairFromOverround(a.Odds)
	assert.InDelta(t, fa[0].Value, got[0].Value, 1e-12)
}

func TestProbabilitiesZeroTotalWeight(t *testing.T) {
	a := line("a", 0, 2.0, 3.4, 3.8)
	b := line("b", 0, 1.8, 3.6, 4.4)

	_, err := Probabilities([]BookmakerLine{a, b})
	assert.ErrorIs(t, err, odds.ErrDegenerateProbability)
}

func TestWeightedBySharpnessFlatLine(t *testing.T) {
	flat := BookmakerLine{Name: "flat", Odds: odds.Outcomes{{Label: "home", Value: 1.9}, {Label: "away", Value: 1.9}}}

	_, err := WeightedBySharpness([]BookmakerLine{flat})
	assert.ErrorIs(t, err, odds.ErrDegenerateProbability)
}

func TestProbabilitiesEmptyAndInvalid(t *testing.T) {
	got, err := Probabilities(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Probabilities([]BookmakerLine{line("bad", 1, 1.0, 3, 4)})
	assert.ErrorIs(t, err, odds.ErrInvalidOdds)
}

func TestProbabilitiesInsertionOrder(t *testing.T) {
	a := BookmakerLine{Name: "a", Weight: 1, Odds: odds.Outcomes{{Label: "away", Value: 3}, {Label: "home", Value: 1.6}}}
	b := BookmakerLine{Name: "b", Weight: 1, Odds: odds.Outcomes{{Label: "home", Value: 1.7}, {Label: "draw", Value: 5}}}

	got, err := Probabilities([]BookmakerLine{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"away", "home", "draw"}, got.Labels())
}

func TestMarketEntropyWeight(t *testing.T) {
	flat, err := MarketEntropyWeight(line("flat", 1, 3.0, 3.0, 3.0))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, flat, 1e-12)

	sharp, err := MarketEntropyWeight(line("sharp", 1, 1.1, 15, 30))
	require.NoError(t, err)
	assert.Greater(t, sharp, 0.3)
	assert.Less(t, sharp, 1.0)

	single, err := MarketEntropyWeight(BookmakerLine{Odds: odds.Outcomes{{Label: "home", Value: 2}}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, single)
}

func TestWeightedBySharpnessFavoursSharpLines(t *testing.T) {
	flat := line("flat", 1, 2.9, 3.0, 3.1)
	sharp := line("sharp", 1, 1.3, 6.0, 11.0)

	got, err := WeightedBySharpness([]BookmakerLine{flat, sharp})
	require.NoError(t, err)
	plain, err := Probabilities([]BookmakerLine{flat, sharp})
	require.NoError(t, err)

	assert.Greater(t, got[0].Value, plain[0].Value)
	assert.False(t, math.IsNaN(got[0].Value))
}

func TestAggregatorWithShin(t *testing.T) {
	agg := Aggregator{Remover: devig.Shin{}}
	got, err := agg.Probabilities([]BookmakerLine{line("a", 1, 1.90, 3.50, 4.00)})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got.Sum(), 1e-9)
}
