package jurisdictions

import (
	"errors"
	"net/http"
)

// Domain errors for jurisdiction operations.
var (
	ErrNotFound            = errors.New("jurisdiction not found")
	ErrDuplicate           = errors.New("jurisdiction code already exists")
	ErrInvalidJurisdiction = errors.New("invalid jurisdiction")
	ErrInvalidCoordinates  = errors.New("coordinates out of range")
	ErrGovernmentOnly      = errors.New("only the government role may manage jurisdictions")
)

// MapHTTPStatus maps jurisdiction domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidJurisdiction) || errors.Is(err, ErrInvalidCoordinates) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrGovernmentOnly) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
