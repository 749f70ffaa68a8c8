package handler

import (
	"net/http"

	"github.com/mcoot/pelada/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest      = apierr.CodeInvalidRequest
	CodePlayerNotFound      = apierr.CodePlayerNotFound
	CodeCapacityExceeded    = apierr.CodeCapacityExceeded
	CodeRegistrationClosed  = apierr.CodeRegistrationClosed
	CodeConcurrencyConflict = apierr.CodeConcurrencyConflict
	CodePlayerBaseNotLoaded = apierr.CodePlayerBaseNotLoaded
	CodeSourceUnavailable   = apierr.CodeSourceUnavailable
	CodeSchemaInvalid       = apierr.CodeSchemaInvalid
	CodeInternalError       = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
