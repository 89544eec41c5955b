package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gfps/internal/logger"
	"github.com/yourusername/gfps/internal/numeric"
)

// Bundle is a multinomial logistic model serialized as JSON:
//
//	{"model_version": "...", "feature_columns": [...],
//	 "coefficients": [[...], ...], "intercepts": [...]}
//
// Rows of coefficients are classes in home, draw, away order.
type Bundle struct {
	Version string   `json:"model_version"`
	Columns []string `json:"feature_columns"`
	numeric.MultinomialLogit
}

// LoadBundle reads and validates a bundle file. It is meant to be called once
// at process start; the returned bundle is immutable.
func LoadBundle(path string, log *logrus.Logger) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model bundle: %w", err)
	}
	b, err := ParseBundle(data)
	if err != nil {
		return nil, err
	}
	logger.NewMLLogger(log).LogBundleLoaded(path, b.Version, len(b.Columns), len(b.Weights))
	return b, nil
}

// ParseBundle decodes and validates bundle JSON.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Bundle) validate() error {
	if len(b.Columns) == 0 {
		b.Columns = append([]string(nil), DefaultFeatureColumns...)
	}
	if len(b.Weights) != 3 {
		return fmt.Errorf("%w: %d classes, want 3", ErrInvalidBundle, len(b.Weights))
	}
	if len(b.Intercepts) != len(b.Weights) {
		return fmt.Errorf("%w: %d intercepts for %d classes", ErrInvalidBundle, len(b.Intercepts), len(b.Weights))
	}
	for i, row := range b.Weights {
		if len(row) != len(b.Columns) {
			return fmt.Errorf("%w: class %d has %d coefficients for %d columns", ErrInvalidBundle, i, len(row), len(b.Columns))
		}
	}
	if b.Version == "" {
		b.Version = "bundle"
	}
	return nil
}

// PredictProba scores features with the bundle's logistic model.
func (b *Bundle) PredictProba(_ context.Context, features MatchFeatures) ([]float64, error) {
	probs, err := b.MultinomialLogit.PredictProba(features.Vector(b.Columns))
	if err != nil {
		return nil, err
	}
	return checkPrediction(probs, 3)
}

// ModelVersion returns the bundle's version tag.
func (b *Bundle) ModelVersion() string { return b.Version }

// FeatureColumns returns the bundle's column order.
func (b *Bundle) FeatureColumns() []string { return b.Columns }
