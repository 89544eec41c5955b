package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gfps/internal/value"
)

type mockAdder struct {
	mock.Mock
}

func (m *mockAdder) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	ret := m.Called(a)
	return redis.NewStringResult(ret.String(0), ret.Error(1))
}

func sampleBet() value.ValueBet {
	return value.ValueBet{
		ID:               uuid.MustParse("0b7e2f8e-6a1c-5d3f-9a2b-1c4d5e6f7a8b"),
		FixtureID:        "fx-1",
		Match:            "Arsenal vs Chelsea",
		Market:           "Match Winner - Home",
		MarketKey:        "1x2",
		Outcome:          "home",
		Odds:             2.1,
		ModelProbability: 0.55,
		ExpectedValue:    0.155,
	}
}

func streamIs(name string) interface{} {
	return mock.MatchedBy(func(a *redis.XAddArgs) bool { return a.Stream == name })
}

func TestPublishWritesGlobalAndMarketStreams(t *testing.T) {
	m := &mockAdder{}
	var payload string
	m.On("XAdd", streamIs(DefaultStream)).Run(func(args mock.Arguments) {
		payload = args.Get(0).(*redis.XAddArgs).Values.(map[string]interface{})["value_bet"].(string)
	}).Return("1-0", nil)
	m.On("XAdd", streamIs("value_bets.detected.1x2")).Return("1-1", nil)

	p := NewStreamPublisher(m, "", 0, nil)
	require.NoError(t, p.Publish(context.Background(), sampleBet()))
	m.AssertNumberOfCalls(t, "XAdd", 2)

	var got value.ValueBet
	require.NoError(t, json.Unmarshal([]byte(payload), &got))
	assert.Equal(t, "fx-1", got.FixtureID)
	assert.InDelta(t, 0.155, got.ExpectedValue, 1e-12)
}

func TestPublishTrimsWhenMaxLenSet(t *testing.T) {
	m := &mockAdder{}
	m.On("XAdd", mock.MatchedBy(func(a *redis.XAddArgs) bool {
		return a.MaxLen == 500 && a.Approx
	})).Return("1-0", nil)

	p := NewStreamPublisher(m, "bets", 500, nil)
	require.NoError(t, p.Publish(context.Background(), sampleBet()))
	m.AssertExpectations(t)
}

func TestPublishError(t *testing.T) {
	boom := errors.New("READONLY")
	m := &mockAdder{}
	m.On("XAdd", mock.Anything).Return("", boom)

	err := NewStreamPublisher(m, "", 0, nil).Publish(context.Background(), sampleBet())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), DefaultStream)
	m.AssertNumberOfCalls(t, "XAdd", 1)
}

func TestPublishAllStopsOnFailure(t *testing.T) {
	m := &mockAdder{}
	m.On("XAdd", mock.Anything).Return("", errors.New("down"))

	bets := []value.ValueBet{sampleBet(), sampleBet()}
	require.Error(t, NewStreamPublisher(m, "", 0, nil).PublishAll(context.Background(), bets))
	m.AssertNumberOfCalls(t, "XAdd", 1)

	require.NoError(t, NewStreamPublisher(&mockAdder{}, "", 0, nil).PublishAll(context.Background(), nil))
}

func TestMarketStream(t *testing.T) {
	p := NewStreamPublisher(&mockAdder{}, "", 0, nil)
	assert.Equal(t, DefaultStream, p.Stream())
	assert.Equal(t, "value_bets.detected.over_under", p.MarketStream("Over/Under"))
	assert.Equal(t, "value_bets.detected.1x2", p.MarketStream(""))
}
