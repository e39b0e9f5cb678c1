package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrMissingName  = errors.New("name is required")
	ErrMissingPhoto = errors.New("photo is required")
	ErrNotStarted   = errors.New("service not started")
)
