package main

import (
	"context"
	"fmt"

	"github.com/yourusername/gfps/internal/config"
	"github.com/yourusername/gfps/internal/database"
	"github.com/yourusername/gfps/internal/devig"
	"github.com/yourusername/gfps/internal/ml"
	"github.com/yourusername/gfps/internal/prediction"
	"github.com/yourusername/gfps/internal/publisher"
	"github.com/yourusername/gfps/internal/repository"
	"github.com/yourusername/gfps/internal/strength"
	"github.com/yourusername/gfps/internal/value"
)

// engineConfig maps the engine section onto prediction.Config.
func engineConfig(c config.EngineConfig) prediction.Config {
	return prediction.Config{
		MaxGoals:         c.MaxGoals,
		Rho:              c.Rho,
		BaseGoalRate:     c.BaseGoalRate,
		LeagueStrength:   c.LeagueStrength,
		AwayFactor:       c.AwayFactor,
		MinLambda:        c.MinLambda,
		ModelVersion:     c.ModelVersion,
		PoissonWeight:    c.PoissonWeight,
		MarketWeight:     c.MarketWeight,
		ClassifierWeight: c.ClassifierWeight,
		DevigMethod:      devig.Method(c.DevigMethod),
		SelfCalibrate:    c.SelfCalibrate,
	}
}

// classifier returns the configured classifier wrapped in the prediction
// cache, or nil when none is configured.
func (a *app) classifier() (ml.Classifier, error) {
	c := a.cfg.Classifier
	var (
		inner  ml.Classifier
		source string
	)
	switch {
	case c.BundlePath != "":
		bundle, err := ml.LoadBundle(c.BundlePath, a.log)
		if err != nil {
			return nil, err
		}
		inner, source = bundle, "bundle"
	case c.URL != "":
		httpCfg := ml.DefaultHTTPConfig()
		httpCfg.BaseURL = c.URL
		httpCfg.APIKey = c.APIKey
		httpCfg.ModelVersion = c.ModelVersion
		httpCfg.FeatureColumns = c.FeatureColumns
		httpCfg.MaxRetries = c.RetryAttempts
		httpCfg.RateLimit = c.RateLimit
		httpCfg.CircuitBreakerMax = c.CircuitBreakerMax
		if t := a.cfg.ClassifierTimeout(); t > 0 {
			httpCfg.Timeout = t
		}
		inner, source = ml.NewHTTPClassifier(httpCfg, a.log), "http"
	default:
		return nil, nil
	}

	if ttl := a.cfg.ClassifierCacheTTL(); ttl > 0 {
		return ml.NewCachedClassifier(inner, ttl, c.CacheMaxSize, source, a.log), nil
	}
	return inner, nil
}

func (a *app) engine(opts ...prediction.Option) (*prediction.Engine, error) {
	clf, err := a.classifier()
	if err != nil {
		return nil, fmt.Errorf("failed to set up classifier: %w", err)
	}
	opts = append([]prediction.Option{prediction.WithLogger(a.log)}, opts...)
	if clf != nil {
		opts = append(opts, prediction.WithClassifier(clf))
	}
	return prediction.NewEngine(engineConfig(a.cfg.Engine), opts...), nil
}

func (a *app) scanner() *value.Scanner {
	v := a.cfg.Value
	s := value.NewScanner(v.MinExpectedValue, v.KellyFraction, v.MaxStakeFraction, v.Bankroll, a.log)
	if v.MinOdds > 0 {
		s.MinOdds = v.MinOdds
	}
	s.MaxOdds = v.MaxOdds
	return s
}

// repositories connects to the configured database. The caller closes db.
func (a *app) repositories(ctx context.Context) (*database.DB, *repository.Repositories, error) {
	if !a.cfg.HasDatabase() {
		return nil, nil, fmt.Errorf("no database configured")
	}
	db, err := database.Initialize(ctx, &a.cfg.Database, a.log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, repos, nil
}

// strengthTable fits a table from stored results once.
func (a *app) strengthTable(ctx context.Context, repos *repository.Repositories) (*strength.Table, error) {
	table := strength.NewTable(nil)
	r := strength.NewRefresher(repos.MatchResults, table, a.cfg.Engine.LeagueStrength, a.cfg.StrengthLookback(), a.log)
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	return table, nil
}

func (a *app) publisher() (*publisher.StreamPublisher, func() error, error) {
	if !a.cfg.HasRedis() {
		return nil, nil, fmt.Errorf("no redis address configured")
	}
	client := publisher.NewClient(a.cfg.Redis)
	return publisher.NewStreamPublisher(client, a.cfg.Redis.Stream, a.cfg.Redis.MaxLength, a.log), client.Close, nil
}
