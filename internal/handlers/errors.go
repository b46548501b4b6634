package handlers

import (
	"errors"
	"net/http"

	"media-catalog/internal/listing"
	"media-catalog/internal/scan"
	"media-catalog/internal/thumbnail"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, scan.ErrAlreadyRunning):
		return http.StatusConflict
	case errors.Is(err, scan.ErrInvalidRequest),
		errors.Is(err, thumbnail.ErrInvalidTarget),
		errors.Is(err, errOutsideRoot):
		return http.StatusBadRequest
	case errors.Is(err, scan.ErrRootNotFound),
		errors.Is(err, thumbnail.ErrNotFound),
		errors.Is(err, listing.ErrInvalidDirectory):
		return http.StatusNotFound
	case errors.Is(err, scan.ErrRootNotDirectory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, scan.ErrRootUnreadable):
		return http.StatusForbidden
	case errors.Is(err, thumbnail.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, thumbnail.ErrCancelled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a JSON error body with its mapped status.
func writeError(w http.ResponseWriter, err error) {
	writeJSONError(w, statusFor(err), err.Error())
}
