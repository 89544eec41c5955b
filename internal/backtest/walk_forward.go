package backtest

import (
	"encoding/json"
	"fmt"

	"github.com/yourusername/gfps/internal/calibration"
)

// WalkForwardConfig sizes the rolling windows, in forecasts.
type WalkForwardConfig struct {
	TrainSize int
	TestSize  int
	StepSize  int
	Bins      int
}

// FitFunc fits a calibrator on one training window.
type FitFunc func(probs [][]float64, labels []int) (calibration.Calibrator, error)

// Scores are the forecast quality metrics of one window.
type Scores struct {
	Brier   float64 `json:"brier"`
	LogLoss float64 `json:"log_loss"`
	ECE     float64 `json:"ece"`
}

// WalkForwardWindow represents one walk-forward window
type WalkForwardWindow struct {
	WindowID   int    `json:"window_id"`
	TrainStart int    `json:"train_start"`
	TrainEnd   int    `json:"train_end"`
	TestStart  int    `json:"test_start"`
	TestEnd    int    `json:"test_end"`
	Raw        Scores `json:"raw"`
	Calibrated Scores `json:"calibrated"`
}

// WalkForwardResult represents walk-forward evaluation result
type WalkForwardResult struct {
	Windows          []WalkForwardWindow `json:"windows"`
	MeanRaw          Scores              `json:"mean_raw"`
	MeanCalibrated   Scores              `json:"mean_calibrated"`
	ConsistencyScore float64             `json:"consistency_score"`
}

// RunWalkForward fits a calibrator on each training window of time-ordered
// forecasts and scores the following test window with and without it.
func RunWalkForward(probs [][]float64, labels []int, fit FitFunc, cfg WalkForwardConfig) (WalkForwardResult, error) {
	if _, err := checkScored(probs, labels); err != nil {
		return WalkForwardResult{}, err
	}
	if cfg.TrainSize <= 0 || cfg.TestSize <= 0 {
		return WalkForwardResult{}, fmt.Errorf("train and test sizes must be positive, got %d and %d", cfg.TrainSize, cfg.TestSize)
	}
	if cfg.StepSize <= 0 {
		cfg.StepSize = cfg.TestSize
	}

	windows := []WalkForwardWindow{}
	for start := 0; start+cfg.TrainSize < len(probs); start += cfg.StepSize {
		trainEnd := start + cfg.TrainSize
		testEnd := min(trainEnd+cfg.TestSize, len(probs))

		cal, err := fit(probs[start:trainEnd], labels[start:trainEnd])
		if err != nil {
			return WalkForwardResult{}, fmt.Errorf("window %d: %w", len(windows)+1, err)
		}
		testProbs, testLabels := probs[trainEnd:testEnd], labels[trainEnd:testEnd]
		raw, err := score(testProbs, testLabels, cfg.Bins)
		if err != nil {
			return WalkForwardResult{}, err
		}
		transformed, err := cal.Transform(testProbs)
		if err != nil {
			return WalkForwardResult{}, fmt.Errorf("window %d: %w", len(windows)+1, err)
		}
		calibrated, err := score(transformed, testLabels, cfg.Bins)
		if err != nil {
			return WalkForwardResult{}, err
		}

		windows = append(windows, WalkForwardWindow{
			WindowID:   len(windows) + 1,
			TrainStart: start,
			TrainEnd:   trainEnd,
			TestStart:  trainEnd,
			TestEnd:    testEnd,
			Raw:        raw,
			Calibrated: calibrated,
		})
	}

	return WalkForwardResult{
		Windows:          windows,
		MeanRaw:          meanScores(windows, func(w WalkForwardWindow) Scores { return w.Raw }),
		MeanCalibrated:   meanScores(windows, func(w WalkForwardWindow) Scores { return w.Calibrated }),
		ConsistencyScore: CalculateConsistency(windows),
	}, nil
}

func score(probs [][]float64, labels []int, bins int) (Scores, error) {
	brier, err := BrierScore(probs, labels)
	if err != nil {
		return Scores{}, err
	}
	ll, err := LogLoss(probs, labels)
	if err != nil {
		return Scores{}, err
	}
	ece, err := ExpectedCalibrationError(probs, labels, bins)
	if err != nil {
		return Scores{}, err
	}
	return Scores{Brier: brier, LogLoss: ll, ECE: ece}, nil
}

// CalculateConsistency is the share of windows where calibration lowered
// log loss.
func CalculateConsistency(windows []WalkForwardWindow) float64 {
	if len(windows) == 0 {
		return 0
	}
	improved := 0
	for _, w := range windows {
		if w.Calibrated.LogLoss < w.Raw.LogLoss {
			improved++
		}
	}
	return float64(improved) / float64(len(windows))
}

func meanScores(windows []WalkForwardWindow, pick func(WalkForwardWindow) Scores) Scores {
	if len(windows) == 0 {
		return Scores{}
	}
	var out Scores
	for _, w := range windows {
		s := pick(w)
		out.Brier += s.Brier
		out.LogLoss += s.LogLoss
		out.ECE += s.ECE
	}
	n := float64(len(windows))
	return Scores{Brier: out.Brier / n, LogLoss: out.LogLoss / n, ECE: out.ECE / n}
}

// ToJSON exports walk-forward result
func (w WalkForwardResult) ToJSON() string {
	data, _ := json.Marshal(w)
	return string(data)
}
