package strength

// Neutral values used when the persistence layer has no row for a fixture.
const (
	DefaultFactor       = 1.0
	DefaultAvgGoalsHome = 1.5
	DefaultAvgGoalsAway = 1.2
)

// Context is the per-fixture stats row supplied by persistence. Nil fields
// are unknown and take neutral defaults.
type Context struct {
	HomeAttack         *float64 `json:"home_attack,omitempty"`
	AwayAttack         *float64 `json:"away_attack,omitempty"`
	HomeDefense        *float64 `json:"home_defense,omitempty"`
	AwayDefense        *float64 `json:"away_defense,omitempty"`
	AvgGoalsHomeLeague *float64 `json:"avg_goals_home_league,omitempty"`
	AvgGoalsAwayLeague *float64 `json:"avg_goals_away_league,omitempty"`
}

// ResolvedContext is a Context with every field filled in.
type ResolvedContext struct {
	HomeAttack         float64
	AwayAttack         float64
	HomeDefense        float64
	AwayDefense        float64
	AvgGoalsHomeLeague float64
	AvgGoalsAwayLeague float64
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// Resolve applies defaults: 1.0 for factors, 1.5 and 1.2 for league averages.
func (c Context) Resolve() ResolvedContext {
	return ResolvedContext{
		HomeAttack:         orDefault(c.HomeAttack, DefaultFactor),
		AwayAttack:         orDefault(c.AwayAttack, DefaultFactor),
		HomeDefense:        orDefault(c.HomeDefense, DefaultFactor),
		AwayDefense:        orDefault(c.AwayDefense, DefaultFactor),
		AvgGoalsHomeLeague: orDefault(c.AvgGoalsHomeLeague, DefaultAvgGoalsHome),
		AvgGoalsAwayLeague: orDefault(c.AvgGoalsAwayLeague, DefaultAvgGoalsAway),
	}
}

// Lambdas returns the expected goals implied by the context.
func (r ResolvedContext) Lambdas() (home, away float64) {
	home = r.AvgGoalsHomeLeague * r.HomeAttack * r.AwayDefense
	away = r.AvgGoalsAwayLeague * r.AwayAttack * r.HomeDefense
	return home, away
}

// Float returns a pointer to v, for building a Context in place.
func Float(v float64) *float64 {
	return &v
}
