package discussions

import (
	"errors"
	"net/http"
)

// Domain errors for discussion operations.
var (
	ErrNotFound             = errors.New("discussion entry not found")
	ErrDuplicate            = errors.New("discussion entry already exists")
	ErrInvalidMessage       = errors.New("invalid discussion entry")
	ErrTypeNotAllowed       = errors.New("message type not permitted for role")
	ErrAttachmentNotAllowed = errors.New("attachment not permitted for message type")
)

// MapHTTPStatus maps discussion domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidMessage) || errors.Is(err, ErrAttachmentNotAllowed) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrTypeNotAllowed) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
