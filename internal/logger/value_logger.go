package logger

import (
	"github.com/sirupsen/logrus"
)

// ValueLogger provides dedicated logging for value-bet decisions.
type ValueLogger struct {
	*logrus.Entry
}

// NewValueLogger creates a new value logger.
func NewValueLogger(baseLogger *logrus.Logger) *ValueLogger {
	return &ValueLogger{
		Entry: OrDiscard(baseLogger).WithField("component", "value"),
	}
}

// LogValueBet logs a selection that cleared the EV threshold.
func (vl *ValueLogger) LogValueBet(betID, match, market, outcome string, odds, probability, expectedValue, stake float64) {
	vl.WithFields(logrus.Fields{
		"bet_id":         betID,
		"match":          match,
		"market":         market,
		"outcome":        outcome,
		"odds":           odds,
		"probability":    probability,
		"expected_value": expectedValue,
		"stake":          stake,
	}).Info("Value bet detected")
}

// LogScan logs the result of scanning one fixture.
func (vl *ValueLogger) LogScan(match string, evaluated, selected int, minEV float64) {
	vl.WithFields(logrus.Fields{
		"match":     match,
		"evaluated": evaluated,
		"selected":  selected,
		"min_ev":    minEV,
	}).Debug("Value scan completed")
}

// LogPublished logs a value bet written to the alert stream.
func (vl *ValueLogger) LogPublished(betID, stream, messageID string) {
	vl.WithFields(logrus.Fields{
		"bet_id":     betID,
		"stream":     stream,
		"message_id": messageID,
	}).Info("Value bet published")
}
