package live

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gfps/internal/goals"
	"github.com/yourusername/gfps/internal/odds"
)

var preMatch = goals.OneXTwo{Home: 0.45, Draw: 0.28, Away: 0.27}

func sum(p goals.OneXTwo) float64 { return p.Home + p.Draw + p.Away }

func TestExponentialDecay(t *testing.T) {
	d, err := ExponentialDecay(30, 30)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d, 1e-12)

	d, err = ExponentialDecay(0, DefaultHalfLife)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d)

	_, err = ExponentialDecay(10, 0)
	assert.Error(t, err)
}

func TestLinearDecay(t *testing.T) {
	tests := []struct {
		elapsed float64
		want    float64
	}{
		{0, 1},
		{45, 0.5},
		{90, 0},
		{95, 0},
	}
	for _, tt := range tests {
		got, err := LinearDecay(tt.elapsed, RegulationMinutes)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12)
	}

	_, err := LinearDecay(10, 0)
	assert.Error(t, err)
}

func TestGoalUpdate(t *testing.T) {
	got, err := GoalUpdate(preMatch, Home)
	require.NoError(t, err)

	total := 0.45*1.6 + 0.28*0.6 + 0.27*0.2
	assert.InDelta(t, 0.45*1.6/total, got.Home, 1e-12)
	assert.InDelta(t, 0.28*0.6/total, got.Draw, 1e-12)
	assert.InDelta(t, 1.0, sum(got), 1e-12)
	assert.Greater(t, got.Home, preMatch.Home)

	got, err = GoalUpdate(preMatch, Away)
	require.NoError(t, err)
	assert.Greater(t, got.Away, preMatch.Away)

	_, err = GoalUpdate(preMatch, "neutral")
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestCardUpdate(t *testing.T) {
	red, err := CardUpdate(preMatch, Home, true)
	require.NoError(t, err)
	yellow, err := CardUpdate(preMatch, Home, false)
	require.NoError(t, err)

	total := 0.45*0.85 + 0.28 + 0.27*1.15
	assert.InDelta(t, 0.45*0.85/total, red.Home, 1e-12)
	assert.InDelta(t, 1.0, sum(red), 1e-12)
	assert.Less(t, red.Home, yellow.Home)
	assert.Less(t, yellow.Home, preMatch.Home)

	away, err := CardUpdate(preMatch, Away, true)
	require.NoError(t, err)
	assert.Greater(t, away.Home, preMatch.Home)
}

func TestUpdatesRejectDegenerateInput(t *testing.T) {
	_, err := GoalUpdate(goals.OneXTwo{}, Home)
	assert.ErrorIs(t, err, odds.ErrDegenerateProbability)

	_, err = CardUpdate(goals.OneXTwo{Home: -0.1, Draw: 0.6, Away: 0.5}, Away, false)
	assert.ErrorIs(t, err, odds.ErrDegenerateProbability)

	_, err = TimeDecayAdjustment(goals.OneXTwo{Home: math.NaN(), Draw: 0.5, Away: 0.5}, 10, DefaultHalfLife)
	assert.ErrorIs(t, err, odds.ErrDegenerateProbability)
}

func TestTimeDecayAdjustment(t *testing.T) {
	kickoff, err := TimeDecayAdjustment(preMatch, 0, DefaultHalfLife)
	require.NoError(t, err)
	assert.InDelta(t, preMatch.Draw, kickoff.Draw, 1e-12)

	half, err := TimeDecayAdjustment(preMatch, 30, DefaultHalfLife)
	require.NoError(t, err)
	assert.InDelta(t, (0.28+0.025)/1.025, half.Draw, 1e-12)

	late, err := TimeDecayAdjustment(preMatch, 85, DefaultHalfLife)
	require.NoError(t, err)
	assert.Greater(t, late.Draw, half.Draw)
	assert.InDelta(t, 1.0, sum(late), 1e-12)
}

func TestMomentumIndex(t *testing.T) {
	tests := []struct {
		name   string
		events []string
		want   float64
	}{
		{"empty", nil, 0},
		{"home goal", []string{"home_goal"}, 0.4},
		{"red cards", []string{"home_red", "away_red", "away_red"}, 0.2},
		{"clipped", []string{"home_goal", "home_goal", "home_goal"}, 1},
		{"clipped negative", []string{"away_goal_45", "away_goal_60", "home_red"}, -1},
		{"ignored", []string{"corner", "home_yellow"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MomentumIndex(tt.events), 1e-12)
		})
	}
}

func TestAdjustLambda(t *testing.T) {
	assert.InDelta(t, 1.3, AdjustLambda(1.0, 1), 1e-12)
	assert.InDelta(t, 0.7, AdjustLambda(1.0, -1), 1e-12)
	assert.InDelta(t, 1.5, AdjustLambda(1.5, 0), 1e-12)
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent(" Home_Red ")
	require.NoError(t, err)
	assert.Equal(t, Event{Side: Home, Kind: "red"}, ev)

	for _, bad := range []string{"goal", "home_corner", "neutral_goal"} {
		_, err := ParseEvent(bad)
		assert.ErrorIs(t, err, ErrUnknownEvent, bad)
	}
}

func TestReplay(t *testing.T) {
	start := State{Probs: preMatch, ElapsedMinutes: 60}

	got, err := Replay(start, []string{"home_goal", "away_red"}, DefaultHalfLife)
	require.NoError(t, err)
	assert.Equal(t, 1, got.HomeGoals)
	assert.Equal(t, 0, got.AwayGoals)

	want, err := GoalUpdate(preMatch, Home)
	require.NoError(t, err)
	want, err = CardUpdate(want, Away, true)
	require.NoError(t, err)
	want, err = TimeDecayAdjustment(want, 60, DefaultHalfLife)
	require.NoError(t, err)
	assert.InDelta(t, want.Home, got.Probs.Home, 1e-12)
	assert.InDelta(t, want.Draw, got.Probs.Draw, 1e-12)

	_, err = Replay(start, []string{"home_corner"}, DefaultHalfLife)
	assert.ErrorIs(t, err, ErrUnknownEvent)
}
