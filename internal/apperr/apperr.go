// Package apperr defines the error taxonomy shared by the grocery core.
package apperr

import (
	"errors"
	"fmt"
)

// ErrExportInProgress is returned when an export starts while another one
// has not finished.
var ErrExportInProgress = errors.New("export already in progress")

// ValidationError is bad user input. The operation was aborted and state is
// unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// Invalid builds a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError reports an id that no longer exists.
type NotFoundError struct {
	Kind string // "list" | "item"
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(kind string, id int64) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// RenderError wraps a failure of one export strategy.
type RenderError struct {
	Strategy string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Strategy, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// PersistenceError wraps a storage failure so data loss is never silent.
type PersistenceError struct {
	Op  string // "read" | "write" | "open"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var v *PersistenceError
	return errors.As(err, &v)
}
