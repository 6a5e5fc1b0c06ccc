package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/guestlist/internal/model"
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
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidIdentity    = "INVALID_IDENTITY"
	CodeInvalidName        = "INVALID_NAME"
	CodeInvalidCapacity    = "INVALID_CAPACITY"
	CodeInvalidFriendLimit = "INVALID_FRIEND_LIMIT"
	CodeInvalidBanEntry    = "INVALID_BAN_ENTRY"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeGuestNotFound      = "GUEST_NOT_FOUND"
	CodeHandleNotFound     = "HANDLE_NOT_FOUND"
	CodeUnregisterDisabled = "UNREGISTER_DISABLED"
	CodeStoreCorrupt       = "STORE_CORRUPT"
	CodeStoreUnavailable   = "STORE_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
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

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrGuestNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGuestNotFound, "Guest is not registered"}}
	case errors.Is(err, model.ErrInvalidIdentity):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidIdentity, "Identity must be an integer"}}
	case errors.Is(err, model.ErrInvalidName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidName, "Name must not be empty"}}
	case errors.Is(err, model.ErrInvalidCapacity):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCapacity, "Capacity must not be negative"}}
	case errors.Is(err, model.ErrInvalidFriendLimit):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidFriendLimit, "Friend limit must not be negative"}}
	case errors.Is(err, model.ErrInvalidBanEntry):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidBanEntry, "Entry must be an identity or a handle"}}
	case errors.Is(err, model.ErrUnregisterDisabled):
		return &httpError{http.StatusForbidden, APIError{CodeUnregisterDisabled, "Unregistration is currently disabled"}}

	// Map store errors
	case errors.Is(err, model.ErrCorruptStore):
		return &httpError{http.StatusInternalServerError, APIError{CodeStoreCorrupt, "Stored data is corrupt"}}
	case errors.Is(err, model.ErrStoreIO):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeStoreUnavailable, "Storage is unavailable, try again later"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Admin token required"}}
}

// NewHandleNotFoundError reports a handle with no known identity
func NewHandleNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{CodeHandleNotFound, "No identity known for this handle"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
