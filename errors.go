package strata

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for schema binding and export.
var (
	// ErrMapping is returned when schema mapping metadata is malformed.
	// Mapping errors are immediate, non-recoverable construction-time or
	// export-time failures.
	ErrMapping = errors.New("strata: malformed mapping")

	// ErrUnregistered is returned when an entity type has no registered
	// metadata (e.g., an unknown tuplizer or descriptor lookup).
	ErrUnregistered = errors.New("strata: entity not registered")
)

// MappingError reports malformed schema metadata, such as a foreign key
// whose source and target column lists differ in length, or a reference
// to a column that does not exist in the target table.
type MappingError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e *MappingError) Error() string {
	return fmt.Sprintf("strata: mapping error: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e *MappingError) Unwrap() error {
	return e.wrap
}

// Is reports whether the target error matches MappingError.
// This allows errors.Is(mappingErr, ErrMapping) to return true.
func (e *MappingError) Is(err error) bool {
	return err == ErrMapping
}

// NewMappingError returns a new MappingError with the given message.
func NewMappingError(msg string) error {
	return &MappingError{msg: msg}
}

// NewMappingErrorf returns a new MappingError with a formatted message.
func NewMappingErrorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &MappingError{msg: err.Error(), wrap: errors.Unwrap(err)}
}

// IsMappingError returns true if the error is a MappingError.
func IsMappingError(err error) bool {
	if err == nil {
		return false
	}
	var e *MappingError
	return errors.As(err, &e) || errors.Is(err, ErrMapping)
}

// ConstraintError reports a DDL statement the database rejected during
// schema export, typically a foreign-key constraint that cannot be
// satisfied.
type ConstraintError struct {
	Stmt string // Rejected statement
	Err  error  // Driver error
}

// Error returns the error string.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("strata: exec %q: %s", e.Stmt, e.Err)
}

// Unwrap returns the underlying driver error.
func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// NewConstraintError returns a new ConstraintError for the given statement.
func NewConstraintError(stmt string, err error) *ConstraintError {
	return &ConstraintError{Stmt: stmt, Err: err}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConstraintError
	return errors.As(err, &e)
}

// ValidationError represents a validation error for schema objects.
type ValidationError struct {
	Name string // Schema, field or constraint name
	Err  error  // Underlying validation error
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("strata: validator failed for %q: %s", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError returns a new ValidationError for the given name.
func NewValidationError(name string, err error) *ValidationError {
	return &ValidationError{Name: name, Err: err}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e)
}

// UnregisteredError reports access to an entity type that was never
// registered with the metadata registry.
type UnregisteredError struct {
	entity string
}

// Error returns the error string.
func (e *UnregisteredError) Error() string {
	return fmt.Sprintf("strata: entity %q not registered", e.entity)
}

// Is reports whether the target error matches UnregisteredError.
func (e *UnregisteredError) Is(err error) bool {
	return err == ErrUnregistered
}

// Entity returns the entity name.
func (e *UnregisteredError) Entity() string {
	return e.entity
}

// NewUnregisteredError returns a new UnregisteredError for the given entity type.
func NewUnregisteredError(entity string) *UnregisteredError {
	return &UnregisteredError{entity: entity}
}

// IsUnregistered returns true if the error is an UnregisteredError.
func IsUnregistered(err error) bool {
	if err == nil {
		return false
	}
	var e *UnregisteredError
	return errors.As(err, &e) || errors.Is(err, ErrUnregistered)
}
