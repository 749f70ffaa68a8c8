package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/balancer"
	"github.com/mcoot/pelada/internal/services/export"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeCapacityExceeded    = "CAPACITY_EXCEEDED"
	CodeRegistrationClosed  = "REGISTRATION_CLOSED"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodePlayerBaseNotLoaded = "PLAYER_BASE_NOT_LOADED"
	CodeSourceUnavailable   = "SOURCE_UNAVAILABLE"
	CodeSchemaInvalid       = "SCHEMA_INVALID"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Code returns the API error code for err
func Code(err error) string {
	return toHTTPError(err).apiError.Code
}

// Message returns the user-facing message for err
func Message(err error) string {
	return toHTTPError(err).apiError.Message
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var capErr *model.CapacityError
	if errors.As(err, &capErr) {
		return &httpError{http.StatusConflict, APIError{CodeCapacityExceeded, capErr.Error()}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUnknownPlayer):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not in the player base"}}
	case errors.Is(err, model.ErrCapacityExceeded):
		return &httpError{http.StatusConflict, APIError{CodeCapacityExceeded, "Capacity exceeded"}}
	case errors.Is(err, model.ErrRegistrationClosed):
		return &httpError{http.StatusConflict, APIError{CodeRegistrationClosed, "Registration is closed"}}
	case errors.Is(err, model.ErrConcurrencyConflict):
		return &httpError{http.StatusConflict, APIError{CodeConcurrencyConflict, "Roster changed concurrently, try again"}}
	case errors.Is(err, model.ErrPlayerBaseNotLoaded):
		return &httpError{http.StatusServiceUnavailable, APIError{CodePlayerBaseNotLoaded, "Player base not loaded"}}
	case errors.Is(err, model.ErrSchemaInvalid):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeSchemaInvalid, err.Error()}}
	case errors.Is(err, model.ErrSourceUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeSourceUnavailable, "Source unavailable"}}

	// Map request parameter errors
	case errors.Is(err, balancer.ErrUnknownVariant), errors.Is(err, export.ErrUnknownFormat):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
