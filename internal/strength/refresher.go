package strength

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gfps/internal/logger"
	"github.com/yourusername/gfps/internal/metrics"
)

// ResultSource lists finished matches played at or after since.
type ResultSource interface {
	ListResults(ctx context.Context, since time.Time) ([]MatchResult, error)
}

// Refresher refits the strength table from a ResultSource and swaps the new
// snapshot into a Table.
type Refresher struct {
	source         ResultSource
	table          *Table
	leagueStrength float64
	lookback       time.Duration
	log            *logger.PredictionLogger
	now            func() time.Time
	sink           RatingsSink
	season         string
}

// NewRefresher creates a refresher. A zero lookback reads the full history.
func NewRefresher(source ResultSource, table *Table, leagueStrength float64, lookback time.Duration, log *logrus.Logger) *Refresher {
	return &Refresher{
		source:         source,
		table:          table,
		leagueStrength: leagueStrength,
		lookback:       lookback,
		log:            logger.NewPredictionLogger(log),
		now:            time.Now,
	}
}

// WithSink makes every successful refit also store per-team ratings for
// season in sink.
func (r *Refresher) WithSink(sink RatingsSink, season string) *Refresher {
	r.sink = sink
	r.season = season
	return r
}

// Refresh loads results, fits a fresh estimator and publishes it, then
// stores ratings when a sink is set. A load error leaves the previous
// snapshot in place; a sink error is returned after the swap.
func (r *Refresher) Refresh(ctx context.Context) error {
	start := r.now()
	var since time.Time
	if r.lookback > 0 {
		since = start.Add(-r.lookback)
	}

	results, err := r.source.ListResults(ctx, since)
	if err != nil {
		metrics.RecordStrengthRefit("error", 0)
		return fmt.Errorf("failed to load match results: %w", err)
	}

	next := Fitted(r.leagueStrength, results)
	r.table.Swap(next)

	if r.sink != nil {
		if err := r.sink.SaveRatings(ctx, r.season, Ratings(results, r.leagueStrength)); err != nil {
			metrics.RecordStrengthRefit("error", next.Len())
			return fmt.Errorf("failed to save ratings: %w", err)
		}
	}

	metrics.RecordStrengthRefit("success", next.Len())
	r.log.LogStrengthRefit(len(results), next.Len(), float64(time.Since(start).Microseconds())/1000.0)
	return nil
}
