// Package errors provides standardized error types and helpers for the corpus engine.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds the engine reports.
var (
	// ErrNotFound indicates a verse, surah, or root absent from the loaded corpus
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates a caller-supplied parameter violating a precondition
	ErrInvalidInput = errors.New("invalid input")
	// ErrRateLimited indicates admission control rejected the call
	ErrRateLimited = errors.New("rate limited")
	// ErrDataUnavailable indicates an optional dataset failed to load
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInternal indicates an unexpected failure during composition or search
	ErrInternal = errors.New("internal error")
)

// NotFoundError reports a missing resource with enough context for the
// transport layer to render it.
type NotFoundError struct {
	Resource string // Type of resource (e.g., "verse", "surah", "root")
	Ref      string // Identifier of the resource (e.g., "2:255")
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.Ref)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// ValidationError represents an input validation error with context.
type ValidationError struct {
	Field   string // Parameter that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// UnavailableError reports an optional dataset that failed to load.
type UnavailableError struct {
	Dataset string // Dataset name (e.g., "morphology", "tafsir")
	Err     error  // Load error that made it unavailable, if recorded
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("dataset unavailable: %s", e.Dataset)
}

func (e *UnavailableError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrDataUnavailable
}

// NewNotFound creates a NotFoundError.
func NewNotFound(resource, ref string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Ref:      ref,
	}
}

// NewValidation creates a ValidationError.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewUnavailable creates an UnavailableError.
func NewUnavailable(dataset string) *UnavailableError {
	return &UnavailableError{Dataset: dataset}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
