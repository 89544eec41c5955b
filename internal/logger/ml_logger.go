package logger

import (
	"github.com/sirupsen/logrus"
)

// MLLogger provides dedicated logging for classifier operations.
type MLLogger struct {
	*logrus.Entry
}

// NewMLLogger creates a new ML logger.
func NewMLLogger(baseLogger *logrus.Logger) *MLLogger {
	return &MLLogger{
		Entry: OrDiscard(baseLogger).WithField("component", "ml"),
	}
}

// LogPredictionRequest logs a classifier call.
func (ml *MLLogger) LogPredictionRequest(modelVersion string, featuresCount int, cacheHit bool, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"model_version":  modelVersion,
		"features_count": featuresCount,
		"cache_hit":      cacheHit,
		"latency_ms":     latencyMs,
	}).Debug("Classifier prediction completed")
}

// LogBundleLoaded logs a classifier bundle read from disk.
func (ml *MLLogger) LogBundleLoaded(path, modelVersion string, features, classes int) {
	ml.WithFields(logrus.Fields{
		"path":          path,
		"model_version": modelVersion,
		"features":      features,
		"classes":       classes,
	}).Info("Classifier bundle loaded")
}

// LogClassifierError logs a failed classifier request.
func (ml *MLLogger) LogClassifierError(endpoint string, err error) {
	ml.WithFields(logrus.Fields{
		"endpoint": endpoint,
	}).WithError(err).Warn("Classifier request failed")
}
