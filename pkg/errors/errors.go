// Package errors provides the error taxonomy for the sizer pipeline.
// Each error type maps to a recovery policy: lookup failures are absorbed by
// the derivation fallback chain, malformed staging artifacts degrade to an
// empty input, validation failures drop a single record, and I/O failures on
// the output side abort the run.
package errors

import (
	"errors"
	"fmt"
)

// Re-exported helpers so callers only need one errors import.
var (
	New = errors.New
	Is  = errors.Is
	As  = errors.As
)

// Sentinel errors usable with errors.Is.
var (
	// ErrNotFound indicates the remote identity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrGated indicates access to a remote identity was denied.
	ErrGated = errors.New("gated access")

	// ErrTransient indicates a network or HTTP failure that may succeed later.
	ErrTransient = errors.New("transient fetch failure")

	// ErrMalformedArtifact indicates an artifact could not be read or parsed.
	ErrMalformedArtifact = errors.New("malformed artifact")

	// ErrInvalidInput indicates a value violated the output schema.
	ErrInvalidInput = errors.New("invalid input")
)

// TransientFetchError is a network/HTTP failure during a remote lookup.
type TransientFetchError struct {
	ID         string
	Endpoint   string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *TransientFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s from %s: status %d", e.ID, e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s from %s: %v", e.ID, e.Endpoint, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *TransientFetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *TransientFetchError) Is(target error) bool {
	return target == ErrTransient
}

// NewTransientFetchError creates a new TransientFetchError.
func NewTransientFetchError(id, endpoint string, statusCode int, err error) *TransientFetchError {
	return &TransientFetchError{ID: id, Endpoint: endpoint, StatusCode: statusCode, Err: err}
}

// GatedAccessError means the caller is not authorized to read a remote identity.
type GatedAccessError struct {
	ID         string
	StatusCode int
}

// Error implements the error interface.
func (e *GatedAccessError) Error() string {
	return fmt.Sprintf("access to %s denied (status %d)", e.ID, e.StatusCode)
}

// Is implements errors.Is support.
func (e *GatedAccessError) Is(target error) bool {
	return target == ErrGated
}

// NewGatedAccessError creates a new GatedAccessError.
func NewGatedAccessError(id string, statusCode int) *GatedAccessError {
	return &GatedAccessError{ID: id, StatusCode: statusCode}
}

// NotFoundError represents a resource that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// MalformedArtifactError reports an artifact that is unreadable or unparsable.
type MalformedArtifactError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *MalformedArtifactError) Error() string {
	return fmt.Sprintf("malformed artifact %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *MalformedArtifactError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *MalformedArtifactError) Is(target error) bool {
	return target == ErrMalformedArtifact
}

// NewMalformedArtifactError creates a new MalformedArtifactError.
func NewMalformedArtifactError(path string, err error) *MalformedArtifactError {
	return &MalformedArtifactError{Path: path, Err: err}
}

// ValidationError represents a record that violates the output schema.
type ValidationError struct {
	ID      string
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.ID != "" && e.Field != "":
		return fmt.Sprintf("validation failed for %s field %s: %s", e.ID, e.Field, e.Message)
	case e.Field != "":
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	default:
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(id, field string, value any, message string) *ValidationError {
	return &ValidationError{ID: id, Field: field, Value: value, Message: message}
}

// ParseError represents a failure decoding a data format.
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError represents an error during file operations.
type IOError struct {
	Operation string // "read", "write", "create", "rename"
	Path      string
	Err       error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsGated checks if an error is a gated access error.
func IsGated(err error) bool {
	return errors.Is(err, ErrGated)
}

// IsTransient checks if an error is a transient fetch error.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsMalformedArtifact checks if an error is a malformed artifact error.
func IsMalformedArtifact(err error) bool {
	return errors.Is(err, ErrMalformedArtifact)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// WrapIO wraps an error as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse wraps an error as a ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}
