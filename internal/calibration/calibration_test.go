package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gfps/internal/numeric"
	"github.com/yourusername/gfps/internal/odds"
)

func TestFitTemperatureSharpensSelfLabels(t *testing.T) {
	// the arg-max pseudo-label always favours the smallest temperature
	logits := [][]float64{{0.5, 0.3, 0.2}}
	scaler, err := FitTemperature(logits, []int{0})
	require.NoError(t, err)
	assert.InDelta(t, 0.05, scaler.Temperature, 1e-12)

	out, err := scaler.Transform(logits)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out[0][0]+out[0][1]+out[0][2], 1e-12)
	assert.Greater(t, out[0][0], 0.95)
}

func TestFitTemperatureSoftensOverconfidentLogits(t *testing.T) {
	// confident logits that are wrong half the time want T > 1
	logits := [][]float64{{4, 0}, {4, 0}, {0, 4}, {0, 4}}
	labels := []int{0, 1, 1, 0}
	scaler, err := FitTemperature(logits, labels)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, scaler.Temperature, 1e-12)
}

func TestTemperatureTransformStable(t *testing.T) {
	scaler := &TemperatureScaler{Temperature: 1}
	out, err := scaler.Transform([][]float64{{1000, 999, 998}})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out[0][0]+out[0][1]+out[0][2], 1e-12)
	assert.Greater(t, out[0][0], out[0][1])

	_, err = (&TemperatureScaler{}).Transform([][]float64{{1, 2}})
	assert.Error(t, err)
}

func TestFitTemperatureValidation(t *testing.T) {
	_, err := FitTemperature([][]float64{{1, 2}}, []int{0, 1})
	assert.ErrorIs(t, err, odds.ErrDimensionMismatch)

	_, err = FitTemperature([][]float64{{1, 2}}, []int{2})
	assert.Error(t, err)
}

func trainingSet() ([][]float64, []int) {
	probs := [][]float64{
		{0.7, 0.2, 0.1}, {0.6, 0.3, 0.1}, {0.8, 0.1, 0.1}, {0.5, 0.3, 0.2},
		{0.2, 0.6, 0.2}, {0.3, 0.5, 0.2}, {0.1, 0.7, 0.2}, {0.25, 0.55, 0.2},
		{0.1, 0.2, 0.7}, {0.2, 0.2, 0.6}, {0.1, 0.1, 0.8}, {0.2, 0.3, 0.5},
	}
	labels := []int{0, 0, 0, 1, 1, 1, 1, 0, 2, 2, 2, 2}
	return probs, labels
}

func TestPlattScaler(t *testing.T) {
	probs, labels := trainingSet()
	platt, err := FitPlatt(probs, labels)
	require.NoError(t, err)

	out, err := platt.Transform(probs)
	require.NoError(t, err)
	for _, row := range out {
		assert.InDelta(t, 1.0, row[0]+row[1]+row[2], 1e-9)
	}
	assert.Equal(t, 0, numeric.ArgMax(out[2]))
	assert.Equal(t, 2, numeric.ArgMax(out[10]))

	_, err = platt.Transform([][]float64{{0.5, 0.5}})
	assert.ErrorIs(t, err, odds.ErrDimensionMismatch)
}

func TestFitIsotonicPAV(t *testing.T) {
	fit := fitIsotonic([]float64{0.1, 0.2, 0.3, 0.4}, []float64{0, 1, 0, 1})
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4}, fit.x)
	assert.Equal(t, []float64{0, 0.5, 0.5, 1}, fit.y)

	assert.Equal(t, 0.0, fit.predict(0.0))
	assert.Equal(t, 1.0, fit.predict(0.9))
	assert.InDelta(t, 0.25, fit.predict(0.15), 1e-12)
	assert.InDelta(t, 0.5, fit.predict(0.25), 1e-12)
}

func TestFitIsotonicTies(t *testing.T) {
	fit := fitIsotonic([]float64{0.5, 0.5, 0.2}, []float64{1, 0, 0})
	assert.Equal(t, []float64{0.2, 0.5}, fit.x)
	assert.Equal(t, []float64{0, 0.5}, fit.y)
}

func TestIsotonicCalibrator(t *testing.T) {
	probs, labels := trainingSet()
	iso, err := FitIsotonic(probs, labels)
	require.NoError(t, err)

	out, err := iso.Transform(probs)
	require.NoError(t, err)
	for _, row := range out {
		assert.InDelta(t, 1.0, row[0]+row[1]+row[2], 1e-9)
	}
	assert.Equal(t, 0, numeric.ArgMax(out[2]))
}

func TestIsotonicTransformDegenerateRow(t *testing.T) {
	iso, err := FitIsotonic([][]float64{{0.9, 0.1}, {0.8, 0.2}}, []int{1, 1})
	require.NoError(t, err)
	// class 0 never occurs so its map is identically 0; low class-1 scores map to 1
	out, err := iso.Transform([][]float64{{0.9, 0.1}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, out[0])
}

func TestConformalCoverage(t *testing.T) {
	probs, labels := trainingSet()
	cp, err := FitConformal(probs, labels, 0.1)
	require.NoError(t, err)

	sets := cp.PredictSet(probs)
	covered := 0
	for i, set := range sets {
		covered += set[labels[i]]
	}
	assert.GreaterOrEqual(t, float64(covered)/float64(len(labels)), 0.9)
	for _, set := range sets {
		assert.GreaterOrEqual(t, set[0]+set[1]+set[2], 1)
	}
}

func TestConformalThreshold(t *testing.T) {
	probs := [][]float64{{0.9, 0.1}, {0.8, 0.2}, {0.6, 0.4}, {0.3, 0.7}}
	labels := []int{0, 0, 0, 0}
	// scores 0.1, 0.2, 0.4, 0.7; rank ceil(5*0.5)=3 -> 0.4
	cp, err := FitConformal(probs, labels, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, cp.Threshold, 1e-12)
	assert.Equal(t, [][]int{{1, 0}, {0, 1}}, cp.PredictSet([][]float64{{0.65, 0.35}, {0.38, 0.62}}))

	_, err = FitConformal(probs, labels, 1.5)
	assert.Error(t, err)
}

func TestCalibratorInterface(t *testing.T) {
	var _ Calibrator = (*TemperatureScaler)(nil)
	var _ Calibrator = (*PlattScaler)(nil)
	var _ Calibrator = (*IsotonicCalibrator)(nil)
}
