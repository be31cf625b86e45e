package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/store"
)

// ErrUnauthorized indicates a missing or invalid bearer token.
type ErrUnauthorized struct {
	Reason string
}

func (e *ErrUnauthorized) Error() string {
	return "unauthorized: " + e.Reason
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var unauth *ErrUnauthorized
	if errors.As(err, &unauth) {
		return http.StatusUnauthorized
	}
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, store.ErrProfileNotFound),
		errors.Is(err, store.ErrItemNotFound),
		errors.Is(err, storage.ErrNoSavedState):
		return http.StatusNotFound
	case errors.Is(err, store.ErrBadCategory),
		errors.Is(err, store.ErrBadIndex),
		errors.Is(err, storage.ErrInvalidSnapshot):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrQuotaExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
