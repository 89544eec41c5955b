package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gfps/internal/models"
	"github.com/yourusername/gfps/internal/strength"
)

const (
	getTeamStatsQuery = `
		SELECT league_id, league_name, team_name, season,
		       home_attack, away_attack, home_defense, away_defense,
		       avg_goals_for, avg_goals_against, updated_at
		FROM team_stats
		WHERE league_id = $1 AND team_name = $2 AND season = $3
	`
	upsertTeamStatsQuery = `
		INSERT INTO team_stats (league_id, league_name, team_name, season,
		                        home_attack, away_attack, home_defense, away_defense,
		                        avg_goals_for, avg_goals_against, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (league_id, team_name, season) DO UPDATE SET
			league_name = EXCLUDED.league_name,
			home_attack = EXCLUDED.home_attack,
			away_attack = EXCLUDED.away_attack,
			home_defense = EXCLUDED.home_defense,
			away_defense = EXCLUDED.away_defense,
			avg_goals_for = EXCLUDED.avg_goals_for,
			avg_goals_against = EXCLUDED.avg_goals_against,
			updated_at = now()
	`
	// Refits keep an imported league name.
	saveRatingQuery = `
		INSERT INTO team_stats (league_id, league_name, team_name, season,
		                        home_attack, away_attack, home_defense, away_defense,
		                        avg_goals_for, avg_goals_against, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (league_id, team_name, season) DO UPDATE SET
			home_attack = EXCLUDED.home_attack,
			away_attack = EXCLUDED.away_attack,
			home_defense = EXCLUDED.home_defense,
			away_defense = EXCLUDED.away_defense,
			avg_goals_for = EXCLUDED.avg_goals_for,
			avg_goals_against = EXCLUDED.avg_goals_against,
			updated_at = now()
	`
)

// PostgresTeamStatsRepository implements TeamStatsRepository for PostgreSQL
type PostgresTeamStatsRepository struct {
	db Querier
}

// NewPostgresTeamStatsRepository creates a new team stats repository
func NewPostgresTeamStatsRepository(db Querier) *PostgresTeamStatsRepository {
	return &PostgresTeamStatsRepository{db: db}
}

func seasonOrDefault(season string) string {
	if season == "" {
		return models.DefaultSeason
	}
	return season
}

// Get returns one team's row, or models.ErrTeamStatsNotFound.
func (r *PostgresTeamStatsRepository) Get(ctx context.Context, leagueID, team, season string) (*models.TeamStats, error) {
	s := &models.TeamStats{}
	err := r.db.QueryRow(ctx, getTeamStatsQuery, leagueID, team, seasonOrDefault(season)).Scan(
		&s.LeagueID, &s.LeagueName, &s.TeamName, &s.Season,
		&s.HomeAttack, &s.AwayAttack, &s.HomeDefense, &s.AwayDefense,
		&s.AvgGoalsFor, &s.AvgGoalsAgainst, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s/%s/%s: %w", leagueID, team, seasonOrDefault(season), models.ErrTeamStatsNotFound)
		}
		return nil, fmt.Errorf("failed to query team stats: %w", err)
	}
	return s, nil
}

// Upsert inserts or replaces the row keyed by league, team and season.
func (r *PostgresTeamStatsRepository) Upsert(ctx context.Context, stats *models.TeamStats) error {
	if stats.LeagueID == "" || stats.TeamName == "" {
		return fmt.Errorf("league_id and team_name are required")
	}
	stats.Season = seasonOrDefault(stats.Season)

	_, err := r.db.Exec(ctx, upsertTeamStatsQuery,
		stats.LeagueID, stats.LeagueName, stats.TeamName, stats.Season,
		stats.HomeAttack, stats.AwayAttack, stats.HomeDefense, stats.AwayDefense,
		stats.AvgGoalsFor, stats.AvgGoalsAgainst,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team stats: %w", err)
	}
	return nil
}

// GetContext builds the fixture's stats context. When either team has no row
// the context is empty and every field resolves to its neutral default.
func (r *PostgresTeamStatsRepository) GetContext(ctx context.Context, leagueID, homeTeam, awayTeam, season string) (strength.Context, error) {
	home, err := r.Get(ctx, leagueID, homeTeam, season)
	if err != nil {
		if errors.Is(err, models.ErrTeamStatsNotFound) {
			return strength.Context{}, nil
		}
		return strength.Context{}, err
	}

	away, err := r.Get(ctx, leagueID, awayTeam, season)
	if err != nil {
		if errors.Is(err, models.ErrTeamStatsNotFound) {
			return strength.Context{}, nil
		}
		return strength.Context{}, err
	}

	return models.FixtureContext(home, away), nil
}

// SaveRatings writes refit ratings into team_stats, one upsert per team.
func (r *PostgresTeamStatsRepository) SaveRatings(ctx context.Context, season string, ratings []strength.Rating) error {
	for _, rating := range ratings {
		s := models.TeamStatsFromRating(rating, season)
		_, err := r.db.Exec(ctx, saveRatingQuery,
			s.LeagueID, s.LeagueName, s.TeamName, s.Season,
			s.HomeAttack, s.AwayAttack, s.HomeDefense, s.AwayDefense,
			s.AvgGoalsFor, s.AvgGoalsAgainst,
		)
		if err != nil {
			return fmt.Errorf("failed to save rating for %s/%s: %w", rating.League, rating.Team, err)
		}
	}
	return nil
}
