package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		want     string
	}{
		{name: "not found", apiError: ErrNotFound, want: "Not found"},
		{name: "no cleartext", apiError: ErrNoCleartext, want: "No cleartext specified"},
		{name: "no data", apiError: ErrNoData, want: "No data specified"},
		{name: "unknown algorithm", apiError: ErrUnknownAlgorithm, want: "Unknown algorithm"},
		{name: "empty message", apiError: Internal(""), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.apiError.Error())
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{name: "bad request", err: BadRequest("x"), wantStatus: http.StatusBadRequest, wantCode: CodeBadRequest},
		{name: "not found", err: NotFound("x"), wantStatus: http.StatusNotFound, wantCode: CodeNotFound},
		{name: "internal", err: Internal("x"), wantStatus: http.StatusInternalServerError, wantCode: CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.Equal(t, "x", tt.err.Message)
		})
	}
}

func TestAPIError_Render(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/test", nil)

	require.NoError(t, BadRequest("bad").Render(w, r))
	status, ok := r.Context().Value(render.StatusCtxKey).(int)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBadRequestFrom(t *testing.T) {
	cause := fmt.Errorf("salt too long: %w", errors.New("limit"))
	apiErr := BadRequestFrom(cause)

	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, cause.Error(), apiErr.Message)
	assert.ErrorIs(t, apiErr, cause)
}

func TestAsAPIErrorAndStatusCode(t *testing.T) {
	wrapped := fmt.Errorf("dispatch: %w", ErrNoData)

	got, ok := AsAPIError(wrapped)
	require.True(t, ok)
	assert.Same(t, ErrNoData, got)
	assert.Equal(t, http.StatusBadRequest, StatusCode(wrapped))

	_, ok = AsAPIError(errors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("plain")))
}
