package ml

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gfps/internal/logger"
)

// CachedClassifier wraps a Classifier with a TTL cache keyed by the aligned
// feature vector and model version.
type CachedClassifier struct {
	inner  Classifier
	cache  *PredictionCache
	source string
	log    *logger.MLLogger
}

// NewCachedClassifier creates a cached classifier. source labels metrics.
func NewCachedClassifier(inner Classifier, ttl time.Duration, maxSize int, source string, log *logrus.Logger) *CachedClassifier {
	return &CachedClassifier{
		inner:  inner,
		cache:  NewPredictionCache(ttl, maxSize),
		source: source,
		log:    logger.NewMLLogger(log),
	}
}

// PredictProba returns a cached vector or delegates to the wrapped classifier.
func (c *CachedClassifier) PredictProba(ctx context.Context, features MatchFeatures) ([]float64, error) {
	start := time.Now()
	columns := columnsOf(c.inner)
	key := NewCacheKey(features.Vector(columns), c.inner.ModelVersion())

	if probs, ok := c.cache.Get(key); ok {
		ClassifierPredictionsTotal.WithLabelValues(c.source, "true").Inc()
		c.log.LogPredictionRequest(key.ModelVersion, len(columns), true, msSince(start))
		return probs, nil
	}

	probs, err := c.inner.PredictProba(ctx, features)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, probs)

	elapsed := time.Since(start)
	ClassifierPredictionsTotal.WithLabelValues(c.source, "false").Inc()
	ClassifierLatency.WithLabelValues(c.source).Observe(elapsed.Seconds())
	c.log.LogPredictionRequest(key.ModelVersion, len(columns), false, msSince(start))
	return probs, nil
}

// ModelVersion returns the wrapped classifier's version.
func (c *CachedClassifier) ModelVersion() string { return c.inner.ModelVersion() }

// FeatureColumns returns the wrapped classifier's column order.
func (c *CachedClassifier) FeatureColumns() []string { return columnsOf(c.inner) }

// ClearCache clears all cached predictions
func (c *CachedClassifier) ClearCache() { c.cache.Clear() }

// GetCacheStats returns cache statistics
func (c *CachedClassifier) GetCacheStats() (hits, misses uint64, hitRatio float64) {
	return c.cache.Stats()
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
