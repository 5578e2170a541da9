// Package domain holds the quote collection, its parsing rules and the
// failures they report. Nothing here knows about HTTP, storage or the CLI;
// adapters map these errors to status codes and exit codes.
package domain

import (
	"errors"
	"fmt"
)

// Failure kinds. Match them with errors.Is or the Is* helpers; the typed
// errors below carry the detail.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrFormat      = errors.New("invalid format")
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError names what was looked up. Key is empty when nothing of the
// kind exists at all, e.g. a random pick from an empty collection.
type NotFoundError struct {
	Kind string
	Key  string
}

func NewNotFoundError(kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return e.Kind + " not found"
	}

	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError rejects user input. Message is shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// FormatError reports a payload that is not valid JSON or not a JSON array.
// Source names the payload: "import", "snapshot".
type FormatError struct {
	Source string
	Reason string
	Cause  error
}

func NewFormatError(source, reason string, cause error) error {
	return &FormatError{Source: source, Reason: reason, Cause: cause}
}

func (e *FormatError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("invalid %s: %s", e.Source, e.Reason)
	}

	return fmt.Sprintf("invalid %s: %s: %v", e.Source, e.Reason, e.Cause)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

func (e *FormatError) Unwrap() error { return e.Cause }

// UnavailableError reports a dependency that could not serve the call:
// the store on persist, the posts feed on fetch.
type UnavailableError struct {
	Service string
	Reason  string
}

func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("service %q unavailable", e.Service)
	}

	return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
}

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsFormat(err error) bool      { return errors.Is(err, ErrFormat) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
