// Package repository reads and writes the PostgreSQL tables behind the
// strength refit and the market predictor's stats context.
package repository

import (
	"fmt"
)

// Repositories holds all repository implementations
type Repositories struct {
	MatchResults *PostgresMatchResultRepository
	TeamStats    *PostgresTeamStatsRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db Querier) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		MatchResults: NewPostgresMatchResultRepository(db),
		TeamStats:    NewPostgresTeamStatsRepository(db),
	}, nil
}
