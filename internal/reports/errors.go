package reports

import (
	"errors"
	"net/http"
)

// Domain errors for report operations.
var (
	ErrNotFound      = errors.New("report not found")
	ErrDuplicate     = errors.New("report already exists")
	ErrInvalidReport = errors.New("invalid report")
	ErrUnknownStatus = errors.New("unknown status")
	ErrCitizenOnly   = errors.New("only citizens can report pollution; government and NGO accounts are for monitoring and action")
	ErrProofRequired = errors.New("closure or verification requires proof-of-work; upload a cleanup photo")
	ErrNGOOnly       = errors.New("only NGOs can provide final verification for completed cleanups")
)

// MapHTTPStatus maps report domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidReport) || errors.Is(err, ErrUnknownStatus) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrCitizenOnly) || errors.Is(err, ErrProofRequired) || errors.Is(err, ErrNGOOnly) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
