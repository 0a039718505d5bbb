/*
errors.go - Centralized error types for the record engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages return these from their Validate functions; the API layer
  maps them to HTTP status codes.

ERROR CATEGORIES:
  1. Validation  - required field empty or out of range (no mutation, no log)
  2. NotFound    - update/get of an unknown id (delete of an unknown id is a no-op)
  3. Format      - import payload is not an array of objects (rejected wholesale)
  4. CorruptStore - a persisted list exists but does not parse (quarantined)
  5. OrphanReference - a link record points at a parent that does not exist

USAGE:
  if errors.Is(err, generic.ErrNotFound) { ... }

  var verr *generic.ValidationError
  if errors.As(err, &verr) {
      fmt.Println(verr.Field)
  }

SEE ALSO:
  - store.go: Returns these errors
  - api/handlers.go: Maps them to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when a record is missing a required field or
	// carries an out-of-range value.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when an update or lookup names an unknown id.
	ErrNotFound = errors.New("record not found")

	// ErrFormat is returned when an import payload is not a sequence of mappings.
	ErrFormat = errors.New("invalid import format")

	// ErrCorruptStore is returned when a persisted list exists but cannot be parsed.
	ErrCorruptStore = errors.New("corrupt store")

	// ErrOrphanReference is returned when a link record references a parent
	// id that does not resolve.
	ErrOrphanReference = errors.New("orphan reference")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Required returns a ValidationError for an empty required field.
func Required(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "must not be empty"}
}

// OutOfRange returns a ValidationError for a numeric field outside [lo, hi].
func OutOfRange(field string, lo, hi any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("must be between %v and %v", lo, hi)}
}

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// FormatError describes why an import payload was rejected.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid import format: %s: %v", e.Reason, e.Err)
	}
	return "invalid import format: " + e.Reason
}

func (e *FormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFormat, e.Err}
	}
	return []error{ErrFormat}
}

// CorruptStoreError reports a persisted list that failed to parse. The
// unreadable bytes were moved to QuarantinedTo before the store continued
// with an empty collection.
type CorruptStoreError struct {
	Name          string
	QuarantinedTo string
	Err           error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("corrupt store %q (moved to %q): %v", e.Name, e.QuarantinedTo, e.Err)
}

func (e *CorruptStoreError) Unwrap() error { return ErrCorruptStore }

// OrphanReferenceError reports a link record whose parent does not exist.
type OrphanReferenceError struct {
	Kind     string
	Field    string
	ParentID string
}

func (e *OrphanReferenceError) Error() string {
	return fmt.Sprintf("%s.%s references unknown id %q", e.Kind, e.Field, e.ParentID)
}

func (e *OrphanReferenceError) Unwrap() error { return ErrOrphanReference }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrFormat) ||
		errors.Is(err, ErrOrphanReference)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
