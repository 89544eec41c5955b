// Package prediction composes the market, goal-model and classifier views of
// a fixture into one calibrated 1X2 distribution.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gfps/internal/calibration"
	"github.com/yourusername/gfps/internal/consensus"
	"github.com/yourusername/gfps/internal/devig"
	"github.com/yourusername/gfps/internal/ensemble"
	"github.com/yourusername/gfps/internal/goals"
	"github.com/yourusername/gfps/internal/logger"
	"github.com/yourusername/gfps/internal/metrics"
	"github.com/yourusername/gfps/internal/ml"
	"github.com/yourusername/gfps/internal/numeric"
	"github.com/yourusername/gfps/internal/odds"
	"github.com/yourusername/gfps/internal/strength"
)

// Stage names one step of a prediction run.
type Stage string

const (
	StageMarketView  Stage = "market_view"
	StagePoissonView Stage = "poisson_view"
	StageMLView      Stage = "ml_view"
	StagePool        Stage = "pool"
	StageCalibrate   Stage = "calibrate"
	StageDone        Stage = "done"
)

var oneXTwo = []string{"home", "draw", "away"}

// Input is one prediction request. Odds may use 1/X/2 or home/draw/away
// labels. Lines, when given without Odds, build the market view from a
// sharpness-weighted bookmaker consensus.
type Input struct {
	FixtureID     string                    `json:"fixture_id"`
	League        string                    `json:"league"`
	HomeTeam      string                    `json:"home_team"`
	AwayTeam      string                    `json:"away_team"`
	Odds          odds.Outcomes             `json:"odds"`
	Lines         []consensus.BookmakerLine `json:"lines,omitempty"`
	RecentResults []strength.MatchResult    `json:"recent_results,omitempty"`
	BaseGoalRate  float64                   `json:"base_goal_rate,omitempty"`
}

// Views holds the per-view distributions that went into the pool.
type Views struct {
	Market     odds.Outcomes `json:"market"`
	Poisson    odds.Outcomes `json:"poisson"`
	Classifier odds.Outcomes `json:"classifier,omitempty"`
	Weights    []float64     `json:"weights"`
}

// Output is a finished prediction.
type Output struct {
	RequestID     uuid.UUID     `json:"request_id"`
	FixtureID     string        `json:"fixture_id"`
	Probabilities odds.Outcomes `json:"probabilities"`
	ModelVersion  string        `json:"model_version"`
	Confidence    float64       `json:"confidence"`
	Calibrated    bool          `json:"calibrated"`
	Views         Views         `json:"views"`
}

// Engine runs the prediction stages. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	cfg        Config
	classifier ml.Classifier
	table      *strength.Table
	calibrator calibration.Calibrator
	log        *logger.PredictionLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClassifier enables the classifier view.
func WithClassifier(c ml.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithStrengthTable supplies the strength snapshot used when a request
// carries no recent results.
func WithStrengthTable(t *strength.Table) Option {
	return func(e *Engine) { e.table = t }
}

// WithCalibrator replaces the per-request temperature fit with a calibrator
// fitted on held-out outcomes. It receives pooled probabilities.
func WithCalibrator(c calibration.Calibrator) Option {
	return func(e *Engine) { e.calibrator = c }
}

// WithLogger sets the engine logger.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) { e.log = logger.NewPredictionLogger(l) }
}

// NewEngine creates an engine.
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg: cfg.withDefaults(),
		log: logger.NewPredictionLogger(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// run carries the state of one Predict call through the stages.
type run struct {
	in         Input
	market     []float64
	poisson    []float64
	classifier []float64
	strengths  [2]strength.TeamStrength
	weights    []float64
	pooled     []float64
	calibrated []float64
	isCalib    bool
}

// Predict runs MARKET_VIEW, POISSON_VIEW, ML_VIEW, POOL and CALIBRATE in
// order. Any stage error fails the whole call, except a missing classifier,
// which skips ML_VIEW.
func (e *Engine) Predict(ctx context.Context, in Input) (*Output, error) {
	start := time.Now()
	r := &run{in: in}

	stages := []struct {
		name Stage
		fn   func(context.Context, *run) error
	}{
		{StageMarketView, e.marketView},
		{StagePoissonView, e.poissonView},
		{StageMLView, e.mlView},
		{StagePool, e.pool},
		{StageCalibrate, e.calibrate},
	}
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, e.fail(in.FixtureID, s.name, err)
		}
		t := time.Now()
		if err := s.fn(ctx, r); err != nil {
			return nil, e.fail(in.FixtureID, s.name, err)
		}
		elapsed := time.Since(t)
		metrics.RecordStageDuration(string(s.name), elapsed.Seconds())
		e.log.LogStage(in.FixtureID, string(s.name), ms(elapsed))
	}

	out := &Output{
		RequestID:     uuid.New(),
		FixtureID:     in.FixtureID,
		Probabilities: labelled(r.calibrated),
		ModelVersion:  e.cfg.ModelVersion,
		Confidence:    Confidence(r.calibrated),
		Calibrated:    r.isCalib,
		Views: Views{
			Market:  labelled(r.market),
			Poisson: labelled(r.poisson),
			Weights: r.weights,
		},
	}
	if r.classifier != nil {
		out.Views.Classifier = labelled(r.classifier)
	}

	metrics.RecordPrediction("success", out.Confidence)
	e.log.LogStage(in.FixtureID, string(StageDone), ms(time.Since(start)))
	e.log.LogPrediction(in.FixtureID, out.ModelVersion, r.calibrated[0], r.calibrated[1], r.calibrated[2], out.Confidence, ms(time.Since(start)))
	return out, nil
}

func (e *Engine) fail(fixtureID string, stage Stage, err error) error {
	metrics.RecordPrediction("error", 0)
	e.log.LogPredictionFailed(fixtureID, string(stage), err)
	return fmt.Errorf("%s: %w", stage, err)
}

// marketView blends overround and Shin fair probabilities 50/50, or takes the
// consensus of several lines.
func (e *Engine) marketView(_ context.Context, r *run) error {
	if len(r.in.Odds) == 0 && len(r.in.Lines) > 0 {
		remover, err := devig.New(e.cfg.DevigMethod)
		if err != nil {
			return err
		}
		lines := make([]consensus.BookmakerLine, len(r.in.Lines))
		for i, l := range r.in.Lines {
			lines[i] = consensus.BookmakerLine{Name: l.Name, Odds: CanonicalOutcomes(l.Odds), Weight: l.Weight}
		}
		probs, err := consensus.Aggregator{Remover: remover}.WeightedBySharpness(lines)
		if err != nil {
			return err
		}
		r.market, err = select1X2(probs)
		return err
	}

	prices := CanonicalOutcomes(r.in.Odds)
	fair, err := devig.FairFromOverround(prices)
	if err != nil {
		return err
	}
	shin, err := devig.ShinProbabilities(prices)
	if err != nil {
		return err
	}
	blend := make([]float64, len(prices))
	for i, f := range fair {
		s, _ := shin.Get(f.Label)
		blend[i] = 0.5*f.Value + 0.5*s
	}
	blended, err := fair.WithValues(blend)
	if err != nil {
		return err
	}
	normalized, err := odds.NormalizeProbabilities(blended)
	if err != nil {
		return err
	}
	r.market, err = select1X2(normalized)
	return err
}

// poissonView derives expected goals from team strengths. Strengths are
// fitted from the request's recent results when present, else read from the
// shared snapshot.
func (e *Engine) poissonView(_ context.Context, r *run) error {
	var est *strength.Estimator
	switch {
	case len(r.in.RecentResults) > 0:
		est = strength.Fitted(e.cfg.LeagueStrength, r.in.RecentResults)
	case e.table != nil:
		est = e.table.Snapshot()
	}
	home := est.Strength(r.in.League, r.in.HomeTeam)
	away := est.Strength(r.in.League, r.in.AwayTeam)
	r.strengths = [2]strength.TeamStrength{home, away}

	base := r.in.BaseGoalRate
	if base <= 0 {
		base = e.cfg.BaseGoalRate
	}
	params, err := goals.NewParams(
		math.Max(base*home.Attack*away.Defence, e.cfg.MinLambda),
		math.Max(base*away.Attack*home.Defence*e.cfg.AwayFactor, e.cfg.MinLambda),
	)
	if err != nil {
		return err
	}
	pred, err := goals.DixonColes(params, e.cfg.Rho, e.cfg.MaxGoals)
	if err != nil {
		return err
	}
	r.poisson = pred.OneXTwo.Vector()
	return nil
}

func (e *Engine) mlView(ctx context.Context, r *run) error {
	if e.classifier == nil {
		return e.skipClassifier(r, ml.ErrMissingCapability)
	}
	probs, err := e.classifier.PredictProba(ctx, Features(r.strengths[0], r.strengths[1], r.market))
	if errors.Is(err, ml.ErrMissingCapability) {
		return e.skipClassifier(r, err)
	}
	if err != nil {
		return err
	}
	if len(probs) != len(oneXTwo) {
		return fmt.Errorf("%w: classifier returned %d probabilities", odds.ErrDimensionMismatch, len(probs))
	}
	r.classifier = probs
	return nil
}

func (e *Engine) skipClassifier(r *run, reason error) error {
	metrics.RecordClassifierSkip()
	e.log.LogClassifierSkipped(r.in.FixtureID, reason.Error())
	return nil
}

// Features builds the classifier inputs. Strength features are
// attack/defence ratios; form and rest differences are not yet sourced.
func Features(home, away strength.TeamStrength, market []float64) ml.MatchFeatures {
	f := ml.MatchFeatures{
		ml.FeatureHomeStrength: ratio(home),
		ml.FeatureAwayStrength: ratio(away),
		ml.FeatureFormDiff:     0,
		ml.FeatureRestDiff:     0,
	}
	if len(market) == 3 {
		f[ml.FeatureImpliedHome] = market[0]
		f[ml.FeatureImpliedDraw] = market[1]
		f[ml.FeatureImpliedAway] = market[2]
	}
	return f
}

func ratio(s strength.TeamStrength) float64 {
	if s.Defence <= 0 {
		return s.Attack
	}
	return s.Attack / s.Defence
}

func (e *Engine) pool(_ context.Context, r *run) error {
	components := [][]float64{r.poisson, r.market}
	weights := []float64{e.cfg.PoissonWeight, e.cfg.MarketWeight}
	if r.classifier != nil {
		components = append(components, r.classifier)
		weights = append(weights, e.cfg.ClassifierWeight)
	}
	pooled, err := ensemble.LinearPool(components, weights)
	if err != nil {
		return err
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r.weights = make([]float64, len(weights))
	for i, w := range weights {
		if total > 0 {
			r.weights[i] = w / total
		} else {
			r.weights[i] = 1 / float64(len(weights))
		}
	}
	r.pooled = pooled
	return nil
}

// calibrate applies the injected calibrator, or fits a temperature on the
// pooled vector against its own arg-max. The self-fit is a heuristic kept
// for output compatibility; it is not a held-out calibration.
func (e *Engine) calibrate(_ context.Context, r *run) error {
	rows := [][]float64{r.pooled}
	switch {
	case e.calibrator != nil:
		out, err := e.calibrator.Transform(rows)
		if err != nil {
			return err
		}
		r.calibrated, r.isCalib = out[0], true
	case e.cfg.SelfCalibrate:
		scaler, err := calibration.FitTemperature(rows, []int{numeric.ArgMax(r.pooled)})
		if err != nil {
			return err
		}
		out, err := scaler.Transform(rows)
		if err != nil {
			return err
		}
		r.calibrated, r.isCalib = out[0], true
	default:
		r.calibrated = r.pooled
	}
	if len(r.calibrated) != len(oneXTwo) {
		return fmt.Errorf("%w: calibrator returned %d probabilities", odds.ErrDimensionMismatch, len(r.calibrated))
	}
	return nil
}

// Confidence is 1 - H(p)/ln 3, clamped to [0, 1].
func Confidence(probs []float64) float64 {
	return numeric.Clip(1-numeric.Entropy(probs)/math.Log(3), 0, 1)
}

func select1X2(probs odds.Outcomes) ([]float64, error) {
	out := make([]float64, len(oneXTwo))
	for i, label := range oneXTwo {
		v, ok := probs.Get(label)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingOutcome, label)
		}
		out[i] = v
	}
	return out, nil
}

func labelled(v []float64) odds.Outcomes {
	out := make(odds.Outcomes, len(v))
	for i, p := range v {
		out[i] = odds.Outcome{Label: oneXTwo[i], Value: p}
	}
	return out
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
