package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for the prediction engine.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: OrDiscard(baseLogger).WithField("component", "prediction"),
	}
}

// LogStage logs a completed stage of a prediction run.
func (pl *PredictionLogger) LogStage(fixtureID, stage string, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"fixture_id":  fixtureID,
		"stage":       stage,
		"duration_ms": durationMs,
	}).Debug("Prediction stage completed")
}

// LogClassifierSkipped logs a prediction made without the classifier view.
func (pl *PredictionLogger) LogClassifierSkipped(fixtureID, reason string) {
	pl.WithFields(logrus.Fields{
		"fixture_id": fixtureID,
		"reason":     reason,
	}).Info("Classifier view skipped")
}

// LogPrediction logs a finished prediction.
func (pl *PredictionLogger) LogPrediction(fixtureID, modelVersion string, home, draw, away, confidence float64, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"fixture_id":    fixtureID,
		"model_version": modelVersion,
		"prob_home":     home,
		"prob_draw":     draw,
		"prob_away":     away,
		"confidence":    confidence,
		"duration_ms":   durationMs,
	}).Info("Prediction completed")
}

// LogPredictionFailed logs a prediction that failed at stage.
func (pl *PredictionLogger) LogPredictionFailed(fixtureID, stage string, err error) {
	pl.WithFields(logrus.Fields{
		"fixture_id": fixtureID,
		"stage":      stage,
	}).WithError(err).Error("Prediction failed")
}

// LogStrengthRefit logs a rebuilt strength snapshot.
func (pl *PredictionLogger) LogStrengthRefit(matches, teams int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"matches":     matches,
		"teams":       teams,
		"duration_ms": durationMs,
	}).Info("Strength table refitted")
}
