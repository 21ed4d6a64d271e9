package identity

import (
	"errors"
	"net/http"
)

// Domain errors for identity operations.
var (
	ErrUnauthenticated = errors.New("missing or invalid credentials")
	ErrUnknownRole     = errors.New("unknown role")
	ErrProfileNotFound = errors.New("user profile not found")
)

// MapHTTPStatus maps identity domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnauthenticated) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrUnknownRole) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrProfileNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
