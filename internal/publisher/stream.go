// Package publisher writes detected value bets to Redis Streams for
// downstream alerting consumers.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gfps/internal/config"
	"github.com/yourusername/gfps/internal/logger"
	"github.com/yourusername/gfps/internal/metrics"
	"github.com/yourusername/gfps/internal/value"
)

// DefaultStream is the global value-bet stream.
const DefaultStream = "value_bets.detected"

// StreamAdder is the part of a Redis client the publisher needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamPublisher publishes value bets to Redis Streams
type StreamPublisher struct {
	client StreamAdder
	stream string
	maxLen int64
	log    *logger.ValueLogger
}

// NewStreamPublisher creates a new stream publisher. An empty stream uses
// DefaultStream; maxLen > 0 trims the stream approximately to that length.
func NewStreamPublisher(client StreamAdder, stream string, maxLen int64, log *logrus.Logger) *StreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamPublisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
		log:    logger.NewValueLogger(log),
	}
}

// NewClient builds a Redis client from configuration.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Stream returns the global stream key.
func (p *StreamPublisher) Stream() string {
	return p.stream
}

// MarketStream returns the per-market stream key, e.g. value_bets.detected.1x2.
func (p *StreamPublisher) MarketStream(market string) string {
	return p.stream + "." + value.MarketKey(market)
}

func (p *StreamPublisher) add(ctx context.Context, stream string, bet value.ValueBet, payload []byte) (string, error) {
	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"value_bet":  string(payload),
			"bet_id":     bet.ID.String(),
			"fixture_id": bet.FixtureID,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	return p.client.XAdd(ctx, args).Result()
}

// Publish writes bet to the global stream and to its market stream.
func (p *StreamPublisher) Publish(ctx context.Context, bet value.ValueBet) error {
	payload, err := json.Marshal(bet)
	if err != nil {
		metrics.RecordValueBetPublished("error")
		return fmt.Errorf("failed to marshal value bet: %w", err)
	}

	for _, stream := range []string{p.stream, p.MarketStream(bet.MarketKey)} {
		id, err := p.add(ctx, stream, bet, payload)
		if err != nil {
			metrics.RecordValueBetPublished("error")
			return fmt.Errorf("failed to publish to stream %s: %w", stream, err)
		}
		p.log.LogPublished(bet.ID.String(), stream, id)
	}

	metrics.RecordValueBetPublished("success")
	return nil
}

// PublishAll publishes bets in order and stops at the first failure.
func (p *StreamPublisher) PublishAll(ctx context.Context, bets []value.ValueBet) error {
	for _, bet := range bets {
		if err := p.Publish(ctx, bet); err != nil {
			return err
		}
	}
	return nil
}
