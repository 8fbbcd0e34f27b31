package handler

import (
	"errors"
	"net/http"

	"backend/internal/model"
)

// statusFor maps the error taxonomy onto HTTP status codes. Anything outside
// the taxonomy is a server-side failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConstraint):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, model.ErrTypeMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
