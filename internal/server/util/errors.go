package util

import (
	"errors"
	"net/http"

	"github.com/unet360/unet360/backend/pkg/graph"
	"github.com/unet360/unet360/backend/pkg/store"
)

// ErrInvalidInput marks request data that passed binding but is not
// acceptable.
var ErrInvalidInput = errors.New("invalid input")

// StatusFor maps domain and store errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, graph.ErrNodeNotFound),
		errors.Is(err, graph.ErrNoPath),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage returns the text shown to clients for err. Internal errors
// are not exposed.
func ErrorMessage(err error) string {
	if StatusFor(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}

// RecordErrorMessage is ErrorMessage for store errors about a single
// record, e.g. "Location not found" or "Tag already exists".
func RecordErrorMessage(what string, err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return what + " not found"
	case errors.Is(err, store.ErrConflict):
		return what + " already exists"
	default:
		return ErrorMessage(err)
	}
}
