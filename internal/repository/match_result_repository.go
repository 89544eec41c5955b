package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gfps/internal/models"
	"github.com/yourusername/gfps/internal/strength"
)

const (
	insertMatchResultQuery = `
		INSERT INTO match_results (league, home_team, away_team, home_goals, away_goals, played_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	listMatchResultsQuery = `
		SELECT league, home_team, away_team, home_goals, away_goals, played_at
		FROM match_results
		WHERE played_at >= $1
		ORDER BY played_at
	`
)

var matchResultColumns = []string{"league", "home_team", "away_team", "home_goals", "away_goals", "played_at"}

// PostgresMatchResultRepository implements MatchResultRepository for PostgreSQL
type PostgresMatchResultRepository struct {
	db Querier
}

// NewPostgresMatchResultRepository creates a new match result repository
func NewPostgresMatchResultRepository(db Querier) *PostgresMatchResultRepository {
	return &PostgresMatchResultRepository{db: db}
}

func validateResult(r strength.MatchResult) error {
	if r.HomeTeam == "" || r.AwayTeam == "" {
		return fmt.Errorf("%w: team names are required", models.ErrInvalidResult)
	}
	if r.HomeGoals < 0 || r.AwayGoals < 0 {
		return fmt.Errorf("%w: negative score %d-%d", models.ErrInvalidResult, r.HomeGoals, r.AwayGoals)
	}
	if r.PlayedAt.IsZero() {
		return fmt.Errorf("%w: played_at is required", models.ErrInvalidResult)
	}
	return nil
}

// Insert inserts a single match result
func (r *PostgresMatchResultRepository) Insert(ctx context.Context, result strength.MatchResult) error {
	if err := validateResult(result); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx, insertMatchResultQuery,
		result.League, result.HomeTeam, result.AwayTeam, result.HomeGoals, result.AwayGoals, result.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match result: %w", err)
	}
	return nil
}

// InsertBatch inserts multiple match results with COPY. Every result is
// validated before any row is sent.
func (r *PostgresMatchResultRepository) InsertBatch(ctx context.Context, results []strength.MatchResult) error {
	if len(results) == 0 {
		return nil
	}

	rows := make([][]any, len(results))
	for i, res := range results {
		if err := validateResult(res); err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
		rows[i] = []any{res.League, res.HomeTeam, res.AwayTeam, res.HomeGoals, res.AwayGoals, res.PlayedAt}
	}

	copyCount, err := r.db.CopyFrom(ctx, pgx.Identifier{"match_results"}, matchResultColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to batch insert match results: %w", err)
	}
	if copyCount != int64(len(results)) {
		return fmt.Errorf("inserted %d rows, expected %d", copyCount, len(results))
	}
	return nil
}

// ListResults returns results played at or after since, oldest first.
func (r *PostgresMatchResultRepository) ListResults(ctx context.Context, since time.Time) ([]strength.MatchResult, error) {
	rows, err := r.db.Query(ctx, listMatchResultsQuery, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query match results: %w", err)
	}
	defer rows.Close()

	var results []strength.MatchResult
	for rows.Next() {
		var m strength.MatchResult
		if err := rows.Scan(&m.League, &m.HomeTeam, &m.AwayTeam, &m.HomeGoals, &m.AwayGoals, &m.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match result: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match results: %w", err)
	}

	return results, nil
}
