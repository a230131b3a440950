package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrLoad indicates an input document could not be read or fetched.
	ErrLoad = errors.New("load error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrMerge indicates the merge engine could not produce a document.
	ErrMerge = errors.New("merge error")

	// ErrNoInputs indicates Merge was called without any input.
	ErrNoInputs = errors.New("no inputs")

	// ErrDuplicatePaths indicates two inputs define the same method on the same path.
	ErrDuplicatePaths = errors.New("duplicate paths")

	// ErrComponentConflict indicates a component name collision that could not be resolved.
	ErrComponentConflict = errors.New("component definition conflict")

	// ErrOperationIDConflict indicates an operationId collision that could not be resolved.
	ErrOperationIDConflict = errors.New("operation id conflict")
)

// MergeErrorKind classifies a merge failure.
type MergeErrorKind string

const (
	// KindNoInputs is reported when the input list is empty.
	KindNoInputs MergeErrorKind = "no-inputs"
	// KindDuplicatePaths is reported when two inputs map to the same path with
	// overlapping methods.
	KindDuplicatePaths MergeErrorKind = "duplicate-paths"
	// KindComponentConflict is reported when no free name could be found for a component.
	KindComponentConflict MergeErrorKind = "component-definition-conflict"
	// KindOperationIDConflict is reported when no free operationId could be found.
	KindOperationIDConflict MergeErrorKind = "operation-id-conflict"
)

// sentinel returns the sentinel error that corresponds to the kind.
func (k MergeErrorKind) sentinel() error {
	switch k {
	case KindNoInputs:
		return ErrNoInputs
	case KindDuplicatePaths:
		return ErrDuplicatePaths
	case KindComponentConflict:
		return ErrComponentConflict
	case KindOperationIDConflict:
		return ErrOperationIDConflict
	default:
		return nil
	}
}

// MergeError is the only error returned by the merge engine.
// A merge that fails never produces a partial document.
type MergeError struct {
	// Kind classifies the failure
	Kind MergeErrorKind
	// InputIndex is the zero-based index of the input being processed (-1 if none)
	InputIndex int
	// Name is the offending component name, operationId or path, if any
	Name string
	// Message is the human-readable description
	Message string
}

// Error returns a human-readable error message.
func (e *MergeError) Error() string {
	msg := "merge error (" + string(e.Kind) + ")"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
// Matches ErrMerge, and the sentinel of the error's Kind.
func (e *MergeError) Is(target error) bool {
	if target == ErrMerge {
		return true
	}
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// ParseError represents a failure to parse an OpenAPI document.
// This includes YAML/JSON deserialization errors and structural issues.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// LoadError represents a failure to acquire one configured input.
type LoadError struct {
	// InputIndex is the zero-based position of the input in the configuration
	InputIndex int
	// Source is the file path or URL that was being loaded
	Source string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *LoadError) Error() string {
	msg := fmt.Sprintf("load error for input %d", e.InputIndex)
	if e.Source != "" {
		msg += " (" + e.Source + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
