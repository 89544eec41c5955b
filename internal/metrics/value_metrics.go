package metrics

import "github.com/prometheus/client_golang/prometheus"

// Value-bet counter vectors
var (
	ValueBetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "value_bets_total",
		Help:      "Value bets detected by market",
	}, []string{"market"})

	ValueBetsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "value_bets_published_total",
		Help:      "Value bets written to the alert stream by status",
	}, []string{"status"})
)

// Value-bet histogram vectors
var (
	ValueBetExpectedValue = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "value_bet_expected_value",
		Help:      "Expected value per unit stake of detected value bets",
		Buckets:   []float64{0.02, 0.05, 0.1, 0.15, 0.2, 0.3, 0.5, 1.0},
	}, []string{"market"})
)

// RecordValueBet records a detected value bet.
func RecordValueBet(market string, expectedValue float64) {
	ValueBetsTotal.WithLabelValues(market).Inc()
	ValueBetExpectedValue.WithLabelValues(market).Observe(expectedValue)
}

// RecordValueBetPublished records the outcome of publishing a value bet.
func RecordValueBetPublished(status string) {
	ValueBetsPublishedTotal.WithLabelValues(status).Inc()
}
