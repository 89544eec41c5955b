package strength

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Rating is one team's venue-split factors in the shape of a stats row.
//
// With the league home and away means H and A, and a team's pooled
// per-venue means (home scored hs, home conceded hc, away scored as, away
// conceded ac, overall scored g):
//
//	HomeAttack  = hs / g    AwayAttack  = as / g
//	HomeDefense = hc / A    AwayDefense = ac / H
//	AvgGoalsFor = g
//
// so a Context built from a home row and an away row yields
// λ_home = hs_home · ac_away / H and λ_away = as_away · hc_home / A.
type Rating struct {
	League          string  `json:"league"`
	Team            string  `json:"team"`
	HomeAttack      float64 `json:"home_attack"`
	AwayAttack      float64 `json:"away_attack"`
	HomeDefense     float64 `json:"home_defense"`
	AwayDefense     float64 `json:"away_defense"`
	AvgGoalsFor     float64 `json:"avg_goals_for"`
	AvgGoalsAgainst float64 `json:"avg_goals_against"`
}

// RatingsSink stores the ratings of a refit.
type RatingsSink interface {
	SaveRatings(ctx context.Context, season string, ratings []Rating) error
}

type venueGoals struct {
	homeScored, homeConceded []float64
	awayScored, awayConceded []float64
}

// pooled shrinks the sample mean toward prior with the league-strength
// weight; an empty sample returns prior.
func pooled(xs []float64, prior, ls float64) float64 {
	if len(xs) == 0 {
		return prior
	}
	return (stat.Mean(xs, nil) + ls*prior) / (1 + ls)
}

// Ratings computes per-team venue ratings, ordered by league then team.
// A league whose home or away mean is not positive uses the neutral league
// averages instead.
func Ratings(results []MatchResult, leagueStrength float64) []Rating {
	if leagueStrength <= 0 {
		leagueStrength = DefaultLeagueStrength
	}

	leagueHome := map[string][]float64{}
	leagueAway := map[string][]float64{}
	teams := map[teamKey]*venueGoals{}
	venue := func(k teamKey) *venueGoals {
		v, ok := teams[k]
		if !ok {
			v = &venueGoals{}
			teams[k] = v
		}
		return v
	}
	for _, m := range results {
		hg, ag := float64(m.HomeGoals), float64(m.AwayGoals)
		leagueHome[m.League] = append(leagueHome[m.League], hg)
		leagueAway[m.League] = append(leagueAway[m.League], ag)

		h := venue(teamKey{m.League, m.HomeTeam})
		h.homeScored = append(h.homeScored, hg)
		h.homeConceded = append(h.homeConceded, ag)
		a := venue(teamKey{m.League, m.AwayTeam})
		a.awayScored = append(a.awayScored, ag)
		a.awayConceded = append(a.awayConceded, hg)
	}

	out := make([]Rating, 0, len(teams))
	for key, v := range teams {
		H := stat.Mean(leagueHome[key.league], nil)
		A := stat.Mean(leagueAway[key.league], nil)
		if !(H > 0) || !(A > 0) {
			H, A = DefaultAvgGoalsHome, DefaultAvgGoalsAway
		}
		mid := (H + A) / 2

		hs := pooled(v.homeScored, H, leagueStrength)
		hc := pooled(v.homeConceded, A, leagueStrength)
		as := pooled(v.awayScored, A, leagueStrength)
		ac := pooled(v.awayConceded, H, leagueStrength)
		g := pooled(append(append([]float64{}, v.homeScored...), v.awayScored...), mid, leagueStrength)
		c := pooled(append(append([]float64{}, v.homeConceded...), v.awayConceded...), mid, leagueStrength)

		out = append(out, Rating{
			League:          key.league,
			Team:            key.team,
			HomeAttack:      hs / g,
			AwayAttack:      as / g,
			HomeDefense:     hc / A,
			AwayDefense:     ac / H,
			AvgGoalsFor:     g,
			AvgGoalsAgainst: c,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].League != out[j].League {
			return out[i].League < out[j].League
		}
		return out[i].Team < out[j].Team
	})
	return out
}
