package api

import (
	"errors"
	"net/http"

	"github.com/okian/radar/internal/adapters/repository"
	"github.com/okian/radar/internal/adapters/uploads"
	service "github.com/okian/radar/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrTooLarge   = errors.New("request too large")
)

// statusFor maps a handler or service error to an HTTP status and a short
// machine-readable code.
func statusFor(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, service.ErrMissingName), errors.Is(err, service.ErrMissingPhoto):
		return http.StatusBadRequest, "missing_field"
	case errors.Is(err, repository.ErrInvalidLimit), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, uploads.ErrTooLarge), errors.Is(err, ErrTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
