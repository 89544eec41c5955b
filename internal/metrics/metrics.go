// Package metrics provides the Prometheus registry for the prediction pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gfps"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total number of prediction requests by status",
	}, []string{"status"})
	ClassifierSkipsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "classifier_skips_total",
		Help:      "Predictions computed without a classifier view",
	})
	StrengthRefitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "strength_refits_total",
		Help:      "Team-strength table refits by status",
	}, []string{"status"})
)

// Gauge metrics
var (
	StrengthTableTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "strength_table_teams",
		Help:      "Number of (league, team) entries in the live strength snapshot",
	})
)

// Histogram metrics
var (
	PredictionStageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_stage_duration_seconds",
		Help:      "Duration of each prediction stage in seconds",
		Buckets:   []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"stage"})
	PredictionConfidence = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_confidence",
		Help:      "Confidence of returned predictions",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(ClassifierSkipsTotal)
		registry.MustRegister(StrengthRefitsTotal)

		registry.MustRegister(StrengthTableTeams)

		registry.MustRegister(PredictionStageDuration)
		registry.MustRegister(PredictionConfidence)

		// Value metrics
		registry.MustRegister(ValueBetsTotal)
		registry.MustRegister(ValueBetExpectedValue)
		registry.MustRegister(ValueBetsPublishedTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler. It also gathers the default
// registry, where the classifier's promauto collectors live.
func Handler() http.Handler {
	gatherers := prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// RecordPrediction counts a finished prediction and, on success, its confidence.
func RecordPrediction(status string, confidence float64) {
	PredictionsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		PredictionConfidence.Observe(confidence)
	}
}

// RecordClassifierSkip records a prediction made without a classifier.
func RecordClassifierSkip() {
	ClassifierSkipsTotal.Inc()
}

// RecordStageDuration records how long one prediction stage took.
func RecordStageDuration(stage string, durationSeconds float64) {
	PredictionStageDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// RecordStrengthRefit records a refit attempt and, on success, the table size.
func RecordStrengthRefit(status string, teams int) {
	StrengthRefitsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		StrengthTableTeams.Set(float64(teams))
	}
}
