// Package strength estimates per-team attack and defence coefficients from
// historical results, with partial pooling toward the league-neutral 1.0.
package strength

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// DefaultLeagueStrength is the pooling constant pulling small samples toward 1.0.
const DefaultLeagueStrength = 0.1

// MatchResult is one finished fixture.
type MatchResult struct {
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeGoals int       `json:"home_goals"`
	AwayGoals int       `json:"away_goals"`
	League    string    `json:"league"`
	PlayedAt  time.Time `json:"played_at,omitempty"`
}

// TeamStrength holds multiplicative coefficients centred on 1.0.
type TeamStrength struct {
	Attack  float64 `json:"attack"`
	Defence float64 `json:"defence"`
}

// Neutral is the prior returned for teams with no history.
var Neutral = TeamStrength{Attack: 1.0, Defence: 1.0}

type teamKey struct {
	league string
	team   string
}

// Estimator holds one fitted strength table. Fit replaces the table
// wholesale; share an Estimator across goroutines only through a Table.
type Estimator struct {
	leagueStrength float64
	teams          map[teamKey]TeamStrength
}

// NewEstimator returns an empty estimator. A non-positive leagueStrength
// uses DefaultLeagueStrength.
func NewEstimator(leagueStrength float64) *Estimator {
	if leagueStrength <= 0 {
		leagueStrength = DefaultLeagueStrength
	}
	return &Estimator{leagueStrength: leagueStrength, teams: map[teamKey]TeamStrength{}}
}

// Fit rebuilds the table from results. Each match contributes a
// goals-for/goals-against pair to both teams regardless of venue.
func (e *Estimator) Fit(results []MatchResult) {
	goalsFor := map[teamKey][]float64{}
	goalsAgainst := map[teamKey][]float64{}
	for _, m := range results {
		home := teamKey{m.League, m.HomeTeam}
		away := teamKey{m.League, m.AwayTeam}
		goalsFor[home] = append(goalsFor[home], float64(m.HomeGoals))
		goalsAgainst[home] = append(goalsAgainst[home], float64(m.AwayGoals))
		goalsFor[away] = append(goalsFor[away], float64(m.AwayGoals))
		goalsAgainst[away] = append(goalsAgainst[away], float64(m.HomeGoals))
	}

	teams := make(map[teamKey]TeamStrength, len(goalsFor))
	ls := e.leagueStrength
	for key, scored := range goalsFor {
		teams[key] = TeamStrength{
			Attack:  (stat.Mean(scored, nil) + ls) / (1 + ls),
			Defence: (stat.Mean(goalsAgainst[key], nil) + ls) / (1 + ls),
		}
	}
	e.teams = teams
}

// Strength returns the fitted coefficients, or Neutral for unseen teams.
func (e *Estimator) Strength(league, team string) TeamStrength {
	if e == nil {
		return Neutral
	}
	if s, ok := e.teams[teamKey{league, team}]; ok {
		return s
	}
	return Neutral
}

// Len returns the number of fitted (league, team) entries.
func (e *Estimator) Len() int {
	if e == nil {
		return 0
	}
	return len(e.teams)
}

// Fitted builds and fits a new Estimator in one call.
func Fitted(leagueStrength float64, results []MatchResult) *Estimator {
	e := NewEstimator(leagueStrength)
	e.Fit(results)
	return e
}
