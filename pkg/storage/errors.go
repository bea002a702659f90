package storage

import (
	"errors"
	"fmt"
)

// Common errors returned by storage operations.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when creating a record whose ID is taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrClosed is returned when using a closed backend.
	ErrClosed = errors.New("backend is closed")

	// ErrPersistenceFailed is returned when a record cannot be durably
	// written to the backing store.
	ErrPersistenceFailed = errors.New("persistence failed")
)

// NotFoundError wraps ErrNotFound with the record that was requested.
type NotFoundError struct {
	ResourceType string // "playbook" or "engagement"
	ResourceID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.ResourceType, e.ResourceID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AlreadyExistsError wraps ErrAlreadyExists with record context.
type AlreadyExistsError struct {
	ResourceType string
	ResourceID   string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.ResourceType, e.ResourceID)
}

func (e *AlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

func (e *AlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

// InvalidInputError wraps ErrInvalidInput with the failing field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid input for field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// NewInvalidInputError builds an InvalidInputError for a field.
func NewInvalidInputError(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: reason}
}

// PersistenceError wraps ErrPersistenceFailed with the write step that failed
// and its underlying cause.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistenceFailed }

// IsNotFound reports whether err indicates a missing record.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAlreadyExists reports whether err indicates a duplicate record.
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }

// IsPersistenceFailed reports whether err indicates a failed durable write.
func IsPersistenceFailed(err error) bool { return errors.Is(err, ErrPersistenceFailed) }
