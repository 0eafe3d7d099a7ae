package errors

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// Error codes
const (
	CodeBadRequest = "BAD_REQUEST"
	CodeNotFound   = "NOT_FOUND"
	CodeInternal   = "INTERNAL_SERVER_ERROR"
)

// APIError is an error that maps onto an HTTP status. Message is written to
// the client verbatim, Cause is only logged.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Cause      error  `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is and errors.As
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// Predefined messages
const (
	MsgNotFound         = "Not found"
	MsgNoCleartext      = "No cleartext specified"
	MsgNoData           = "No data specified"
	MsgUnknownAlgorithm = "Unknown algorithm"
	MsgInternal         = "Internal server error"
)

// Predefined errors
var (
	ErrNotFound         = NotFound(MsgNotFound)
	ErrNoCleartext      = BadRequest(MsgNoCleartext)
	ErrNoData           = BadRequest(MsgNoData)
	ErrUnknownAlgorithm = BadRequest(MsgUnknownAlgorithm)
	ErrInternalServer   = Internal(MsgInternal)
)

// BadRequest creates a 400 error
func BadRequest(message string) *APIError {
	return New(http.StatusBadRequest, CodeBadRequest, message)
}

// BadRequestFrom creates a 400 error carrying err's message
func BadRequestFrom(err error) *APIError {
	e := BadRequest(err.Error())
	e.Cause = err
	return e
}

// NotFound creates a 404 error
func NotFound(message string) *APIError {
	return New(http.StatusNotFound, CodeNotFound, message)
}

// Internal creates a 500 error
func Internal(message string) *APIError {
	return New(http.StatusInternalServerError, CodeInternal, message)
}

// AsAPIError returns the APIError in err's chain, if any
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the HTTP status for err, 500 when it is not an APIError
func StatusCode(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode
	}
	return http.StatusInternalServerError
}
