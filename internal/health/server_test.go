package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "strength-worker", Version: "1.2.0", Port: "0"})

	rec := get(t, s.Handler(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.2.0", body.Version)

	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/live").Code)
}

func TestReadyRequiresSetReady(t *testing.T) {
	s := NewServer(Config{ServiceName: "svc", Port: "0"})

	assert.Equal(t, http.StatusServiceUnavailable, get(t, s.Handler(), "/ready").Code)

	s.SetReady(true)
	assert.True(t, s.IsReady())
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/ready").Code)
}

func TestReadyRunsChecks(t *testing.T) {
	s := NewServer(Config{
		ServiceName: "svc",
		Port:        "0",
		Checks: map[string]Checker{
			"database":       PingCheck(pinger{}),
			"strength_table": func(ctx context.Context) error { return errors.New("empty") },
		},
	})
	s.SetReady(true)

	rec := get(t, s.Handler(), "/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "error: empty", body.Checks["strength_table"])
}

func TestMetricsRoute(t *testing.T) {
	s := NewServer(Config{ServiceName: "svc", Port: "0", MetricsPath: "/metrics"})
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/metrics").Code)

	bare := NewServer(Config{ServiceName: "svc", Port: "0"})
	assert.Equal(t, http.StatusNotFound, get(t, bare.Handler(), "/metrics").Code)
}

func TestShutdownWithoutStart(t *testing.T) {
	assert.NoError(t, NewServer(Config{}).Shutdown())
}
