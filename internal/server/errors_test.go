package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-chat/internal/chat"
	"github.com/jonathan/resume-chat/internal/payments"
	"github.com/jonathan/resume-chat/internal/types"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "body", Message: "request body is empty"}
	assert.Equal(t, "validation error: body - request body is empty", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	invalidRequest := (&types.SendMessageRequest{}).Validate()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "ErrValidation",
			err:      &ErrValidation{Field: "data", Message: "invalid data URI"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "validator errors",
			err:      invalidRequest,
			expected: http.StatusBadRequest,
		},
		{
			name:     "empty message",
			err:      chat.ErrEmptyMessage,
			expected: http.StatusBadRequest,
		},
		{
			name:     "unknown template",
			err:      fmt.Errorf("%w: %q", chat.ErrInvalidTemplate, "baroque"),
			expected: http.StatusBadRequest,
		},
		{
			name:     "too many pages",
			err:      &chat.FileError{FileName: "cv.pdf", Err: fmt.Errorf("%w: 12 pages", chat.ErrTooManyPages)},
			expected: http.StatusBadRequest,
		},
		{
			name:     "file too large",
			err:      &chat.FileError{FileName: "cv.pdf", Err: chat.ErrFileTooLarge},
			expected: http.StatusRequestEntityTooLarge,
		},
		{
			name:     "body too large",
			err:      &http.MaxBytesError{Limit: 10},
			expected: http.StatusRequestEntityTooLarge,
		},
		{
			name:     "unsupported file",
			err:      &chat.FileError{FileName: "notes.txt", MIMEType: "text/plain", Err: chat.ErrUnsupportedFile},
			expected: http.StatusUnsupportedMediaType,
		},
		{
			name:     "busy session",
			err:      chat.ErrBusy,
			expected: http.StatusConflict,
		},
		{
			name:     "payment required",
			err:      payments.ErrPaymentRequired,
			expected: http.StatusPaymentRequired,
		},
		{
			name:     "foreign payment request",
			err:      payments.ErrForbidden,
			expected: http.StatusForbidden,
		},
		{
			name:     "unknown payment request",
			err:      fmt.Errorf("%w: req-1", payments.ErrRequestNotFound),
			expected: http.StatusNotFound,
		},
		{
			name:     "gateway not configured",
			err:      payments.ErrNotConfigured,
			expected: http.StatusServiceUnavailable,
		},
		{
			name:     "gateway failure",
			err:      &payments.GatewayError{Op: "create", StatusCode: http.StatusInternalServerError},
			expected: http.StatusBadGateway,
		},
		{
			name:     "deadline",
			err:      fmt.Errorf("export classic: %w", context.DeadlineExceeded),
			expected: http.StatusGatewayTimeout,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		status int
		code   string
	}{
		{http.StatusBadRequest, "invalid_request"},
		{http.StatusPaymentRequired, "payment_required"},
		{http.StatusForbidden, "forbidden"},
		{http.StatusNotFound, "not_found"},
		{http.StatusConflict, "session_busy"},
		{http.StatusRequestEntityTooLarge, "file_too_large"},
		{http.StatusUnsupportedMediaType, "unsupported_file"},
		{http.StatusBadGateway, "upstream_error"},
		{http.StatusServiceUnavailable, "unavailable"},
		{http.StatusGatewayTimeout, "timeout"},
		{http.StatusInternalServerError, "internal_error"},
		{http.StatusTeapot, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, errorCode(tt.status))
		})
	}
}
