package errors

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ErrorHandler writes errors as plain-text responses and logs them
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError responds with err's status and message. Errors that are not an
// *APIError become a generic 500 whose cause is only logged.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	apiErr, ok := AsAPIError(err)
	if !ok {
		apiErr = ErrInternalServer
	}

	attrs := []any{
		slog.String("error", err.Error()),
		slog.Int("status", apiErr.StatusCode),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", attrs...)
	} else {
		h.logger.InfoContext(r.Context(), "request rejected", attrs...)
	}

	h.write(w, r, apiErr)
}

// HandlePanic logs a recovered panic and responds with a generic 500
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered any) {
	attrs := []any{
		slog.String("panic", fmt.Sprintf("%v", recovered)),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}
	if h.includeStack {
		attrs = append(attrs, slog.String("stack", string(debug.Stack())))
	}
	h.logger.ErrorContext(r.Context(), "panic recovered", attrs...)

	h.write(w, r, ErrInternalServer)
}

// NotFound is an http.HandlerFunc answering 404
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, ErrNotFound)
}

func (h *ErrorHandler) write(w http.ResponseWriter, r *http.Request, apiErr *APIError) {
	_ = apiErr.Render(w, r)
	render.PlainText(w, r, apiErr.Message)
}
