// Package errors provides custom error types for pricing and scenario errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnknownKind      = errors.New("unknown instrument kind")
	ErrUnknownMetric    = errors.New("unknown metric")
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrDuplicateTenor   = errors.New("duplicate curve tenor")
	ErrNodeNotFound     = errors.New("curve node not found")
	ErrStorage          = errors.New("storage error")
	ErrConfigInvalid    = errors.New("invalid configuration")
)

// ValidationError represents a rejected numeric or structural input.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// Unwrap lets callers match any validation failure with ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// StorageError represents a failure of the key-value backend.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage error [%s] %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("storage error [%s] %s", e.Op, e.Key)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes every StorageError match ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError creates a new StorageError.
func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{
		Op:  op,
		Key: key,
		Err: err,
	}
}

// MetricError represents a series request for a metric the kind does not support.
type MetricError struct {
	Kind   string
	Metric string
}

func (e *MetricError) Error() string {
	return fmt.Sprintf("metric %q not available for %s", e.Metric, e.Kind)
}

func (e *MetricError) Unwrap() error {
	return ErrUnknownMetric
}

// NewMetricError creates a new MetricError.
func NewMetricError(kind, metric string) *MetricError {
	return &MetricError{Kind: kind, Metric: metric}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
