package ml

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gfps/internal/logger"
)

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) PredictProba(ctx context.Context, features MatchFeatures) ([]float64, error) {
	args := m.Called(ctx, features)
	if v := args.Get(0); v != nil {
		return v.([]float64), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClassifier) ModelVersion() string { return "mock_v1" }

const bundleJSON = `{
  "model_version": "logit_2024_08",
  "feature_columns": ["implied_home", "implied_away"],
  "coefficients": [[2.0, -1.0], [0.0, 0.0], [-1.0, 2.0]],
  "intercepts": [0.1, 0.0, -0.1]
}`

func TestMatchFeaturesVector(t *testing.T) {
	f := MatchFeatures{FeatureImpliedHome: 0.5, FeatureImpliedAway: 0.3, "unused": 9}

	assert.Equal(t, []float64{0.3, 0, 0.5}, f.Vector([]string{FeatureImpliedAway, FeatureFormDiff, FeatureImpliedHome}))
	assert.Len(t, f.Vector(nil), len(DefaultFeatureColumns))
}

func TestParseBundle(t *testing.T) {
	b, err := ParseBundle([]byte(bundleJSON))
	require.NoError(t, err)
	assert.Equal(t, "logit_2024_08", b.ModelVersion())
	assert.Equal(t, []string{"implied_home", "implied_away"}, b.FeatureColumns())

	probs, err := b.PredictProba(context.Background(), MatchFeatures{FeatureImpliedHome: 0.6, FeatureImpliedAway: 0.2})
	require.NoError(t, err)
	require.Len(t, probs, 3)
	assert.InDelta(t, 1.0, probs[0]+probs[1]+probs[2], 1e-12)
	assert.Greater(t, probs[0], probs[2])
}

func TestParseBundle_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"two classes", `{"feature_columns":["a"],"coefficients":[[1],[2]],"intercepts":[0,0]}`},
		{"intercept count", `{"feature_columns":["a"],"coefficients":[[1],[2],[3]],"intercepts":[0]}`},
		{"column count", `{"feature_columns":["a","b"],"coefficients":[[1],[2],[3]],"intercepts":[0,0,0]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBundle([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidBundle)
		})
	}
}

func TestLoadBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model_1x2.json")
	require.NoError(t, os.WriteFile(path, []byte(bundleJSON), 0o600))

	b, err := LoadBundle(path, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, "logit_2024_08", b.Version)

	_, err = LoadBundle(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

func TestCachedClassifier(t *testing.T) {
	inner := new(mockClassifier)
	features := MatchFeatures{FeatureImpliedHome: 0.5}
	inner.On("PredictProba", mock.Anything, features).Return([]float64{0.5, 0.3, 0.2}, nil).Once()

	c := NewCachedClassifier(inner, time.Minute, 10, "test", logger.Discard())

	first, err := c.PredictProba(context.Background(), features)
	require.NoError(t, err)
	second, err := c.PredictProba(context.Background(), features)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "mock_v1", c.ModelVersion())
	assert.Equal(t, DefaultFeatureColumns, c.FeatureColumns())
	inner.AssertNumberOfCalls(t, "PredictProba", 1)

	hits, misses, _ := c.GetCacheStats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCachedClassifier_ErrorsAreNotCached(t *testing.T) {
	inner := new(mockClassifier)
	features := MatchFeatures{FeatureImpliedDraw: 0.3}
	inner.On("PredictProba", mock.Anything, features).Return(nil, ErrClassifierUnavailable).Twice()

	c := NewCachedClassifier(inner, time.Minute, 10, "test", nil)
	for i := 0; i < 2; i++ {
		_, err := c.PredictProba(context.Background(), features)
		assert.ErrorIs(t, err, ErrClassifierUnavailable)
	}
	inner.AssertExpectations(t)
}

func newTestHTTPClassifier(url string) *HTTPClassifier {
	return NewHTTPClassifier(HTTPConfig{
		BaseURL:           url,
		APIKey:            "secret",
		ModelVersion:      "remote_v3",
		Timeout:           time.Second,
		MaxRetries:        1,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      5 * time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: 2,
	}, logger.Discard())
}

func TestHTTPClassifier_PredictProba(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, predictPath, r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultFeatureColumns, req.Columns)
		assert.Len(t, req.Features, len(DefaultFeatureColumns))

		_ = json.NewEncoder(w).Encode(predictResponse{Probabilities: []float64{2, 1, 1}, ModelVersion: "remote_v3"})
	}))
	defer server.Close()

	c := newTestHTTPClassifier(server.URL)
	probs, err := c.PredictProba(context.Background(), MatchFeatures{FeatureImpliedHome: 0.5})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.25, 0.25}, probs, 1e-12)
	assert.Equal(t, "remote_v3", c.ModelVersion())
}

func TestHTTPClassifier_InvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(predictResponse{Probabilities: []float64{0.5, 0.5}})
	}))
	defer server.Close()

	_, err := newTestHTTPClassifier(server.URL).PredictProba(context.Background(), MatchFeatures{})
	assert.ErrorIs(t, err, ErrInvalidPrediction)
}

func TestHTTPClassifier_RetriesThenOpensCircuit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestHTTPClassifier(server.URL)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.PredictProba(ctx, MatchFeatures{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrClassifierUnavailable))
	}
	// one retry per call
	assert.Equal(t, int32(4), calls.Load())

	_, err := c.PredictProba(ctx, MatchFeatures{})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(4), calls.Load())

	c.ResetCircuit()
	_, err = c.PredictProba(ctx, MatchFeatures{})
	assert.ErrorIs(t, err, ErrClassifierUnavailable)
}

func TestHTTPClassifier_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	assert.NoError(t, newTestHTTPClassifier(server.URL).HealthCheck(context.Background()))
}
