package models

import "errors"

// Custom errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrTeamStatsNotFound = errors.New("team stats not found")
	ErrInvalidResult     = errors.New("invalid match result")
)
