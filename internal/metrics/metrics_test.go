package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordPrediction(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(PredictionsTotal.WithLabelValues("success"))
	RecordPrediction("success", 0.7)
	RecordPrediction("error", 0)
	assert.Equal(t, before+1, testutil.ToFloat64(PredictionsTotal.WithLabelValues("success")))
}

func TestRecordClassifierSkip(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(ClassifierSkipsTotal)
	RecordClassifierSkip()
	assert.Equal(t, before+1, testutil.ToFloat64(ClassifierSkipsTotal))
}

func TestRecordStageDuration(t *testing.T) {
	InitRegistry()

	for _, stage := range []string{"market_view", "poisson_view", "ml_view", "pool", "calibrate"} {
		assert.NotPanics(t, func() {
			RecordStageDuration(stage, 0.0002)
		})
	}
}

func TestRecordStrengthRefit(t *testing.T) {
	InitRegistry()

	RecordStrengthRefit("success", 40)
	assert.Equal(t, 40.0, testutil.ToFloat64(StrengthTableTeams))

	RecordStrengthRefit("error", 0)
	assert.Equal(t, 40.0, testutil.ToFloat64(StrengthTableTeams))
}

func TestRecordValueBet(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(ValueBetsTotal.WithLabelValues("1X2"))
	RecordValueBet("1X2", 0.12)
	RecordValueBetPublished("success")
	assert.Equal(t, before+1, testutil.ToFloat64(ValueBetsTotal.WithLabelValues("1X2")))
}

func TestHandler(t *testing.T) {
	InitRegistry()
	RecordPrediction("success", 0.5)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gfps_predictions_total")
}
