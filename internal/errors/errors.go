package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for type checking
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream failure")
)

// NotFoundError indicates an entity doesn't exist.
type NotFoundError struct {
	Resource string // "card", "board", "webhook"
	ID       string // The identifier that wasn't found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError indicates invalid caller input, typically missing
// required fields. Never retried.
type ValidationError struct {
	Fields  []string // Missing required fields, when that's what went wrong
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s are required", strings.Join(e.Fields, " and "))
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// UpstreamError indicates the Trello API rejected or failed an operation.
// Message carries Trello's own error payload when one was available.
type UpstreamError struct {
	Operation string // e.g. "create board"
	Status    int    // HTTP status from Trello, 0 when the call never completed
	Message   string
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to %s: trello returned %d: %s", e.Operation, e.Status, e.Message)
	}
	return fmt.Sprintf("failed to %s: %s", e.Operation, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// Helper constructors for common cases

func CardNotFound(id string) error {
	return &NotFoundError{Resource: "card", ID: id}
}

func BoardNotFound(id string) error {
	return &NotFoundError{Resource: "board", ID: id}
}

func WebhookNotFound(id string) error {
	return &NotFoundError{Resource: "webhook", ID: id}
}

func MissingFields(fields ...string) error {
	return &ValidationError{Fields: fields}
}

func InvalidInput(message string) error {
	return &ValidationError{Message: message}
}

func Upstream(operation string, status int, message string) error {
	return &UpstreamError{Operation: operation, Status: status, Message: message}
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUpstream checks if an error came back from the remote API.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// UpstreamStatus returns the HTTP status carried by an upstream error,
// or 0 if err is not one.
func UpstreamStatus(err error) int {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Status
	}
	return 0
}
