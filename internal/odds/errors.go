// Package odds converts bookmaker quotes into implied probabilities and
// provides the ordered outcome mapping shared by the pricing packages.
package odds

import "errors"

var (
	// ErrInvalidOdds indicates a decimal price <= 1, or an unparseable or non-finite quote
	ErrInvalidOdds = errors.New("invalid odds")

	// ErrDegenerateProbability indicates a distribution with non-positive total mass or negative entries
	ErrDegenerateProbability = errors.New("degenerate probability distribution")

	// ErrNonPositiveMass is kept as an alias of ErrDegenerateProbability
	ErrNonPositiveMass = ErrDegenerateProbability

	// ErrDimensionMismatch indicates paired inputs of different lengths
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidProbability indicates a probability outside [0, 1]
	ErrInvalidProbability = errors.New("probability out of range")
)
