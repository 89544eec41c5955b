package ml

import "errors"

var (
	// ErrMissingCapability indicates no classifier is configured. Callers treat
	// it as a skip, not a failure.
	ErrMissingCapability = errors.New("classifier capability not configured")

	// ErrClassifierUnavailable indicates the remote classifier is unreachable
	ErrClassifierUnavailable = errors.New("classifier service unavailable")

	// ErrInvalidPrediction indicates the classifier returned an unusable vector
	ErrInvalidPrediction = errors.New("invalid classifier prediction")

	// ErrCircuitOpen indicates too many consecutive transport failures
	ErrCircuitOpen = errors.New("classifier circuit breaker open")

	// ErrInvalidBundle indicates a model bundle file that cannot be used
	ErrInvalidBundle = errors.New("invalid model bundle")
)
