package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-chat/internal/chat"
	"github.com/jonathan/resume-chat/internal/payments"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation   *ErrValidation
		fieldErrs    validator.ValidationErrors
		tooLarge     *http.MaxBytesError
		gatewayError *payments.GatewayError
	)

	switch {
	case errors.As(err, &validation), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge), errors.Is(err, chat.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, chat.ErrUnsupportedFile):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrInvalidTemplate),
		errors.Is(err, chat.ErrTooManyPages):
		return http.StatusBadRequest
	case errors.Is(err, chat.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, payments.ErrPaymentRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, payments.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, payments.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, payments.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.As(err, &gatewayError):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorCode is the machine-readable error field for a status.
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusPaymentRequired:
		return "payment_required"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "session_busy"
	case http.StatusRequestEntityTooLarge:
		return "file_too_large"
	case http.StatusUnsupportedMediaType:
		return "unsupported_file"
	case http.StatusBadGateway:
		return "upstream_error"
	case http.StatusServiceUnavailable:
		return "unavailable"
	case http.StatusGatewayTimeout:
		return "timeout"
	default:
		return "internal_error"
	}
}
