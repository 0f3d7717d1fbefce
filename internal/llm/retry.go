package llm

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// RetryPolicy decides whether a failed attempt moves on to the next credential.
type RetryPolicy interface {
	ShouldRotate(err error) bool
}

// RetryPolicyFunc adapts a function to RetryPolicy.
type RetryPolicyFunc func(err error) bool

// ShouldRotate calls f(err).
func (f RetryPolicyFunc) ShouldRotate(err error) bool {
	return f(err)
}

// UniformRetry rotates on every error, permanent or not.
// TODO: stop on googleapi 400/403 responses once malformed-request errors are told apart from key problems.
type UniformRetry struct{}

// ShouldRotate reports true for any non-nil error.
func (UniformRetry) ShouldRotate(err error) bool {
	return err != nil
}

// IsRateLimited reports whether err looks like a quota or rate-limit rejection.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "rate limit")
}
