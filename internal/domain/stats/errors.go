package stats

import "errors"

// Sentinel kinds for stats errors.
var (
	ErrUnknownCategory = errors.New("unknown category")
)
