package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Pipeline specific errors
	ErrGenerationFailed ErrorCode = "GENERATION_FAILED"
	ErrQuotaExhausted   ErrorCode = "QUOTA_EXHAUSTED"
	ErrSourceFailed     ErrorCode = "SOURCE_FAILED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

// NewGenerationError wraps a non-quota failure from the generation capability.
// These abort the whole pipeline run.
func NewGenerationError(err error) *DomainError {
	return NewError(ErrGenerationFailed, "Generation capability call failed", err)
}

// NewQuotaExhaustedError signals that every call-level retry was consumed by
// quota responses. This is fatal for the run: the capability is unavailable,
// not just one batch.
func NewQuotaExhaustedError(attempts int) *DomainError {
	return NewError(ErrQuotaExhausted, fmt.Sprintf("Generation quota still exhausted after %d attempts", attempts), nil)
}

// NewSourceError wraps a failure while decoding or transcribing the audio
// fallback source.
func NewSourceError(message string, err error) *DomainError {
	return NewError(ErrSourceFailed, message, err)
}

// CapabilityError represents an error originating from the generation capability.
type CapabilityError string

func (e CapabilityError) Error() string {
	return string(e)
}

// ErrQuotaExceeded is the distinguished quota/rate-limit signal. Generator
// adapters return it (possibly wrapped) so the retry layer can tell transient
// quota pressure from fatal failures.
const ErrQuotaExceeded = CapabilityError("generation: quota exceeded")

// ValidationError represents a request validation error
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidationError(message string) error {
	return &ValidationError{message: message}
}
