package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a single invalid field of a decoded document.
type ValidationError struct {
	Key    string // Path of the field, e.g. "states[2].name"
	Reason string // Human-readable reason for failure
	Value  any    // The offending value
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

func fieldName(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// wrapField prefixes the key of every ValidationError in err with a parent path.
func wrapField(err error, format string, args ...any) error {
	prefix := fieldName(format, args...)
	prefixed := func(e error) error {
		var ve *ValidationError
		if errors.As(e, &ve) {
			return &ValidationError{Key: prefix + "." + ve.Key, Reason: ve.Reason, Value: ve.Value}
		}
		return fmt.Errorf("%s: %w", prefix, e)
	}

	if errs := ValidationErrors(err); errs != nil {
		out := make([]error, len(errs))
		for i, e := range errs {
			out[i] = prefixed(e)
		}
		return &AggregateError{Errors: out}
	}
	return prefixed(err)
}
