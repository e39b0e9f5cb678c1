package uploads

import "errors"

// Sentinel kinds for upload errors.
var (
	ErrTooLarge   = errors.New("upload too large")
	ErrSave       = errors.New("upload save failed")
	ErrInvalidDir = errors.New("invalid upload dir")
)
