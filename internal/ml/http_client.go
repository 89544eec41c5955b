package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/gfps/internal/logger"
)

const predictPath = "/v1/predict/1x2"

// HTTPConfig holds configuration for the remote classifier client
type HTTPConfig struct {
	BaseURL           string
	APIKey            string
	ModelVersion      string
	FeatureColumns    []string
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RateLimit         float64 // requests per second
	CircuitBreakerMax int     // consecutive failures before the circuit opens
}

// DefaultHTTPConfig returns recommended defaults
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:           5 * time.Second,
		MaxRetries:        3,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      2 * time.Second,
		RateLimit:         20.0,
		CircuitBreakerMax: 5,
	}
}

type predictRequest struct {
	Columns  []string  `json:"feature_columns"`
	Features []float64 `json:"features"`
}

type predictResponse struct {
	Probabilities []float64 `json:"probabilities"`
	ModelVersion  string    `json:"model_version"`
}

// HTTPClassifier scores features against a remote classifier service using
// a retrying, rate-limited HTTP client with a simple circuit breaker.
type HTTPClassifier struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	cfg     HTTPConfig
	log     *logger.MLLogger

	mu                sync.Mutex
	consecutiveErrors int
	lastError         error
}

// NewHTTPClassifier creates a new HTTP classifier client
func NewHTTPClassifier(cfg HTTPConfig, log *logrus.Logger) *HTTPClassifier {
	log = logger.OrDiscard(log)
	def := DefaultHTTPConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = def.RateLimit
	}
	if cfg.CircuitBreakerMax <= 0 {
		cfg.CircuitBreakerMax = def.CircuitBreakerMax
	}
	if len(cfg.FeatureColumns) == 0 {
		cfg.FeatureColumns = DefaultFeatureColumns
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = retryPolicy()
	retryClient.Logger = log

	return &HTTPClassifier{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		cfg:     cfg,
		log:     logger.NewMLLogger(log),
	}
}

// PredictProba posts the aligned feature vector and returns the service's
// [home, draw, away] probabilities.
func (c *HTTPClassifier) PredictProba(ctx context.Context, features MatchFeatures) ([]float64, error) {
	start := time.Now()
	body, err := json.Marshal(predictRequest{
		Columns:  c.cfg.FeatureColumns,
		Features: features.Vector(c.cfg.FeatureColumns),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+predictPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		ClassifierErrorsTotal.WithLabelValues("predict", "network").Inc()
		c.log.LogClassifierError(predictPath, err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		ClassifierErrorsTotal.WithLabelValues("predict", "http_error").Inc()
		err := fmt.Errorf("%w: status %d: %s", ErrClassifierUnavailable, resp.StatusCode, strings.TrimSpace(string(msg)))
		c.log.LogClassifierError(predictPath, err)
		return nil, err
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		ClassifierErrorsTotal.WithLabelValues("predict", "decode").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
	}
	probs, err := checkPrediction(out.Probabilities, 3)
	if err != nil {
		ClassifierErrorsTotal.WithLabelValues("predict", "invalid").Inc()
		return nil, err
	}

	version := out.ModelVersion
	if version == "" {
		version = c.ModelVersion()
	}
	ClassifierLatency.WithLabelValues("http").Observe(time.Since(start).Seconds())
	c.log.LogPredictionRequest(version, len(c.cfg.FeatureColumns), false, msSince(start))
	return probs, nil
}

// ModelVersion returns the configured remote model version.
func (c *HTTPClassifier) ModelVersion() string {
	if c.cfg.ModelVersion == "" {
		return "remote"
	}
	return c.cfg.ModelVersion
}

// FeatureColumns returns the column order sent to the service.
func (c *HTTPClassifier) FeatureColumns() []string { return c.cfg.FeatureColumns }

// HealthCheck checks classifier service health
func (c *HTTPClassifier) HealthCheck(ctx context.Context) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrClassifierUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases idle connections
func (c *HTTPClassifier) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// do executes a request with rate limiting and circuit breaking.
func (c *HTTPClassifier) do(ctx context.Context, req *retryablehttp.Request) (*http.Response, error) {
	c.mu.Lock()
	if c.consecutiveErrors >= c.cfg.CircuitBreakerMax {
		last := c.lastError
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, last)
	}
	c.mu.Unlock()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.client.Do(req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.consecutiveErrors++
		c.lastError = err
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	if resp.StatusCode < 500 {
		c.consecutiveErrors = 0
		c.lastError = nil
	}
	return resp, nil
}

// ResetCircuit closes the circuit breaker.
func (c *HTTPClassifier) ResetCircuit() {
	c.mu.Lock()
	c.consecutiveErrors = 0
	c.lastError = nil
	c.mu.Unlock()
}

// retryPolicy retries network errors, 429 and 5xx gateway errors.
func retryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, err
		}
		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true, nil
		}
		return false, nil
	}
}
