package cleanups

import (
	"errors"
	"net/http"
)

// Domain errors for cleanup operations.
var (
	ErrNotFound        = errors.New("cleanup action not found")
	ErrDuplicate       = errors.New("cleanup action already exists")
	ErrInvalidCleanup  = errors.New("invalid cleanup request")
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	ErrAlreadyJoined   = errors.New("you have already joined this cleanup")
	ErrHazmatClearance = errors.New("high-severity incidents require HAZMAT clearance; restricted to government agencies only")
)

// MapHTTPStatus maps cleanup domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrAlreadyJoined) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidCleanup) || errors.Is(err, ErrInvalidProgress) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrHazmatClearance) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
