package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gfps/internal/numeric"
	"github.com/yourusername/gfps/internal/odds"
)

func TestDefaultWeights(t *testing.T) {
	assert.Equal(t, []float64{0.5, 0.5}, DefaultWeights(false))

	w := DefaultWeights(true)
	require.Len(t, w, 3)
	assert.InDelta(t, 0.5/1.4, w[0], 1e-12)
	assert.InDelta(t, 0.4/1.4, w[2], 1e-12)
	assert.InDelta(t, 1.0, w[0]+w[1]+w[2], 1e-12)
}

func TestLinearPool(t *testing.T) {
	pooled, err := LinearPool(
		[][]float64{{0.6, 0.3, 0.1}, {0.2, 0.3, 0.5}},
		[]float64{3, 1},
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pooled[0], 1e-12)
	assert.InDelta(t, 0.3, pooled[1], 1e-12)
	assert.InDelta(t, 0.2, pooled[2], 1e-12)
}

func TestLinearPoolZeroWeightsAreUniform(t *testing.T) {
	pooled, err := LinearPool(
		[][]float64{{1, 0}, {0, 1}},
		[]float64{0, 0},
	)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, pooled)
}

func TestLinearPoolErrors(t *testing.T) {
	_, err := LinearPool([][]float64{{0.5, 0.5}}, []float64{1, 1})
	assert.ErrorIs(t, err, odds.ErrDimensionMismatch)

	_, err = LinearPool([][]float64{{0.5, 0.5}, {0.5, 0.5}}, []float64{1, -0.1})
	assert.ErrorIs(t, err, ErrNegativeWeight)

	_, err = LinearPool([][]float64{{0.5, 0.5}, {1}}, []float64{1, 1})
	assert.ErrorIs(t, err, odds.ErrDimensionMismatch)

	_, err = LinearPool([][]float64{{0, 0}}, []float64{1})
	assert.ErrorIs(t, err, odds.ErrDegenerateProbability)
}

func TestStackingEnsemble(t *testing.T) {
	// model A is informative, model B is noise
	modelA := [][]float64{
		{0.8, 0.1, 0.1}, {0.7, 0.2, 0.1}, {0.75, 0.15, 0.1},
		{0.1, 0.8, 0.1}, {0.2, 0.7, 0.1}, {0.15, 0.75, 0.1},
		{0.1, 0.1, 0.8}, {0.1, 0.2, 0.7}, {0.1, 0.15, 0.75},
	}
	modelB := [][]float64{
		{0.3, 0.4, 0.3}, {0.4, 0.3, 0.3}, {0.3, 0.3, 0.4},
		{0.3, 0.4, 0.3}, {0.4, 0.3, 0.3}, {0.3, 0.3, 0.4},
		{0.3, 0.4, 0.3}, {0.4, 0.3, 0.3}, {0.3, 0.3, 0.4},
	}
	labels := []int{0, 0, 0, 1, 1, 1, 2, 2, 2}

	stack, err := FitStacking([][][]float64{modelA, modelB}, labels, 3)
	require.NoError(t, err)

	probs, err := stack.Predict([][][]float64{modelA, modelB})
	require.NoError(t, err)
	require.Len(t, probs, len(labels))
	for i, p := range probs {
		assert.InDelta(t, 1.0, p[0]+p[1]+p[2], 1e-9)
		assert.Equal(t, labels[i], numeric.ArgMax(p), "row %d", i)
	}
}

func TestStackingDimensionMismatch(t *testing.T) {
	_, err := FitStacking([][][]float64{{{0.5, 0.5}}, {{0.5, 0.5}, {0.4, 0.6}}}, []int{0}, 2)
	assert.ErrorIs(t, err, odds.ErrDimensionMismatch)

	_, err = FitStacking(nil, nil, 2)
	assert.ErrorIs(t, err, odds.ErrDimensionMismatch)
}
