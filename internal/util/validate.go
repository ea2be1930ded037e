package util

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a validation failure with detailed information.
type ValidationError struct {
	Field   string `json:"field"`   // Field that failed validation
	Value   any    `json:"value"`   // Value that was provided
	Message string `json:"message"` // Human-readable error message
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// Validator accumulates ValidationErrors. The zero value is ready to use.
type Validator struct {
	errs []error
}

// Positive requires v > 0.
func (v *Validator) Positive(field string, value int64) {
	if value <= 0 {
		v.Add(field, value, "must be positive")
	}
}

// NonNegative requires v >= 0.
func (v *Validator) NonNegative(field string, value int64) {
	if value < 0 {
		v.Add(field, value, "must not be negative")
	}
}

// OneOf requires value to be one of allowed (case-insensitive).
func (v *Validator) OneOf(field, value string, allowed ...string) {
	if !slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, value) }) {
		v.Add(field, value, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")))
	}
}

// Add records a failure.
func (v *Validator) Add(field string, value any, msg string) {
	v.errs = append(v.errs, &ValidationError{Field: field, Value: value, Message: msg})
}

// Err joins all recorded failures, or returns nil.
func (v *Validator) Err() error {
	return errors.Join(v.errs...)
}
