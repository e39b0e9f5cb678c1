package chart

import "errors"

// Sentinel kinds for chart errors.
var (
	ErrRender     = errors.New("chart render failed")
	ErrWrite      = errors.New("chart write failed")
	ErrInvalidDir = errors.New("invalid chart dir")
)
