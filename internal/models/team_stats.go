package models

import (
	"time"

	"github.com/yourusername/gfps/internal/strength"
)

// DefaultSeason is used when a lookup does not name one.
const DefaultSeason = "2024"

// TeamStats is one team's per-season attack and defence row. Nil factors are
// unknown and resolve to neutral defaults downstream.
type TeamStats struct {
	LeagueID        string    `db:"league_id" json:"league_id" validate:"required"`
	LeagueName      string    `db:"league_name" json:"league_name"`
	TeamName        string    `db:"team_name" json:"team_name" validate:"required"`
	Season          string    `db:"season" json:"season" validate:"required"`
	HomeAttack      *float64  `db:"home_attack" json:"home_attack,omitempty" validate:"omitempty,gt=0"`
	AwayAttack      *float64  `db:"away_attack" json:"away_attack,omitempty" validate:"omitempty,gt=0"`
	HomeDefense     *float64  `db:"home_defense" json:"home_defense,omitempty" validate:"omitempty,gt=0"`
	AwayDefense     *float64  `db:"away_defense" json:"away_defense,omitempty" validate:"omitempty,gt=0"`
	AvgGoalsFor     *float64  `db:"avg_goals_for" json:"avg_goals_for,omitempty" validate:"omitempty,gte=0"`
	AvgGoalsAgainst *float64  `db:"avg_goals_against" json:"avg_goals_against,omitempty" validate:"omitempty,gte=0"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// FixtureContext combines the home and away rows into the stats context the
// market predictor consumes: home factors from the home row, away factors
// from the away row, league averages from each side's goals-for.
func FixtureContext(home, away *TeamStats) strength.Context {
	if home == nil || away == nil {
		return strength.Context{}
	}
	return strength.Context{
		HomeAttack:         home.HomeAttack,
		AwayAttack:         away.AwayAttack,
		HomeDefense:        home.HomeDefense,
		AwayDefense:        away.AwayDefense,
		AvgGoalsHomeLeague: home.AvgGoalsFor,
		AvgGoalsAwayLeague: away.AvgGoalsFor,
	}
}

// TeamStatsFromRating converts a fitted rating into a stats row for season.
// The league identifier doubles as its name.
func TeamStatsFromRating(r strength.Rating, season string) *TeamStats {
	if season == "" {
		season = DefaultSeason
	}
	return &TeamStats{
		LeagueID:        r.League,
		LeagueName:      r.League,
		TeamName:        r.Team,
		Season:          season,
		HomeAttack:      strength.Float(r.HomeAttack),
		AwayAttack:      strength.Float(r.AwayAttack),
		HomeDefense:     strength.Float(r.HomeDefense),
		AwayDefense:     strength.Float(r.AwayDefense),
		AvgGoalsFor:     strength.Float(r.AvgGoalsFor),
		AvgGoalsAgainst: strength.Float(r.AvgGoalsAgainst),
	}
}
