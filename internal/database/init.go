package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gfps/internal/config"
)

// RequiredTables lists the relations the repositories read from.
var RequiredTables = []string{"match_results", "team_stats"}

// Schema creates the tables the repositories expect. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS match_results (
	id          BIGSERIAL PRIMARY KEY,
	league      TEXT        NOT NULL,
	home_team   TEXT        NOT NULL,
	away_team   TEXT        NOT NULL,
	home_goals  INTEGER     NOT NULL CHECK (home_goals >= 0),
	away_goals  INTEGER     NOT NULL CHECK (away_goals >= 0),
	played_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_match_results_played_at ON match_results (played_at);

CREATE TABLE IF NOT EXISTS team_stats (
	league_id         TEXT             NOT NULL,
	league_name       TEXT             NOT NULL,
	team_name         TEXT             NOT NULL,
	season            TEXT             NOT NULL DEFAULT '2024',
	home_attack       DOUBLE PRECISION,
	away_attack       DOUBLE PRECISION,
	home_defense      DOUBLE PRECISION,
	away_defense      DOUBLE PRECISION,
	avg_goals_for     DOUBLE PRECISION,
	avg_goals_against DOUBLE PRECISION,
	updated_at        TIMESTAMPTZ      NOT NULL DEFAULT now(),
	PRIMARY KEY (league_id, team_name, season)
);
`

// Initialize creates a database connection pool and checks the expected
// tables are present. Missing tables are logged, not fatal; run EnsureSchema
// to create them.
func Initialize(ctx context.Context, cfg *config.DatabaseConfig, log *logrus.Logger) (*DB, error) {
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	missing, err := db.MissingTables(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if len(missing) > 0 && log != nil {
		log.WithField("tables", missing).Warn("Database schema incomplete; run with schema creation enabled")
	}

	return db, nil
}

// MissingTables returns the entries of RequiredTables absent from the search path.
func (db *DB) MissingTables(ctx context.Context) ([]string, error) {
	var missing []string
	for _, table := range RequiredTables {
		var exists bool
		err := db.pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", table).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	return missing, nil
}

// EnsureSchema applies Schema.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
