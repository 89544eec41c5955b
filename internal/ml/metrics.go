package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClassifierPredictionsTotal tracks classifier predictions by source
	ClassifierPredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gfps_classifier_predictions_total",
			Help: "Total number of classifier predictions served",
		},
		[]string{"source", "cache_hit"},
	)

	// ClassifierLatency tracks classifier prediction latency
	ClassifierLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gfps_classifier_latency_seconds",
			Help:    "Classifier prediction latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// ClassifierCacheHitRatio tracks cache hit ratio
	ClassifierCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gfps_classifier_cache_hit_ratio",
			Help: "Classifier prediction cache hit ratio",
		},
	)

	// ClassifierErrorsTotal tracks transport and decoding errors
	ClassifierErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gfps_classifier_errors_total",
			Help: "Total number of classifier errors",
		},
		[]string{"endpoint", "error_type"},
	)
)
