package repository

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
	ErrStoreClosed  = errors.New("leaderboard store closed")
	ErrUnknownKind  = errors.New("unknown store backend")
	ErrInvalidPath  = errors.New("invalid leaderboard path")
)
