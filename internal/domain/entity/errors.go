package entity

import (
	"errors"
	"fmt"
)

// Generation failure kinds. Match with errors.Is.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrTimeout            = errors.New("timeout")
	ErrUnknown            = errors.New("failed to generate response")
)

// GenerationError classified failure returned by the chat use case
type GenerationError struct {
	Kind  error
	Cause error
}

func (e *GenerationError) Error() string {
	if e.Cause == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Cause)
}

func (e *GenerationError) Is(target error) bool {
	return target == e.Kind
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// ProviderError raw failure reported by an AI transport.
// NoResponse means the request never got an answer (network, deadline).
type ProviderError struct {
	StatusCode int
	Message    string
	NoResponse bool
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.NoResponse && e.Err != nil:
		return fmt.Sprintf("no response from provider: %v", e.Err)
	case e.NoResponse:
		return "no response from provider"
	case e.StatusCode != 0:
		return fmt.Sprintf("provider status %d: %s", e.StatusCode, e.Message)
	default:
		return "provider error: " + e.Message
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
