package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredentials is returned when the key pool is empty. No request is made.
	ErrNoCredentials = errors.New("no API keys configured")
	// ErrRetriesExhausted is returned after every key in the pool failed once.
	ErrRetriesExhausted = errors.New("all API keys failed")
)

// ParseError represents an extraction response that is not a valid resume document
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid extraction response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid extraction response: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// PanicError wraps a panic recovered while calling the model
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("model call panicked: %v", e.Value)
}
