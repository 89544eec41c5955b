package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/gfps/internal/models"
	"github.com/yourusername/gfps/internal/strength"
)

// Querier is the subset of the connection pool the repositories use.
// *database.DB and *pgxpool.Pool both satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, rows pgx.CopyFromSource) (int64, error)
}

// MatchResultRepository defines the interface for finished-match data access
type MatchResultRepository interface {
	Insert(ctx context.Context, result strength.MatchResult) error
	InsertBatch(ctx context.Context, results []strength.MatchResult) error
	ListResults(ctx context.Context, since time.Time) ([]strength.MatchResult, error)
}

// TeamStatsRepository defines the interface for per-season team stats access
type TeamStatsRepository interface {
	Get(ctx context.Context, leagueID, team, season string) (*models.TeamStats, error)
	Upsert(ctx context.Context, stats *models.TeamStats) error
	GetContext(ctx context.Context, leagueID, homeTeam, awayTeam, season string) (strength.Context, error)
}

var (
	_ MatchResultRepository = (*PostgresMatchResultRepository)(nil)
	_ TeamStatsRepository   = (*PostgresTeamStatsRepository)(nil)
	_ strength.ResultSource = (*PostgresMatchResultRepository)(nil)
	_ strength.RatingsSink  = (*PostgresTeamStatsRepository)(nil)
)
