// Package errors provides structured error types and exit codes for codedrills.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess          = 0 // Success
	ExitRuntimeError     = 1 // Runtime error (tests failed, command failed, etc.)
	ExitConfigError      = 2 // Configuration error (invalid config, bad flags, etc.)
	ExitEnvironmentError = 3 // Environment error (no workspace, python missing, etc.)
)

// MsgNoWorkspace is reported when an operation needs a workspace and none is open.
const MsgNoWorkspace = "No workspace folder open"

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindEnvironment
)

// DrillError is the base error type for codedrills.
type DrillError struct {
	Kind     ErrorKind
	Message  string
	Exercise string // Exercise name if applicable
	Command  string // Command name if applicable
	Cause    error  // Underlying error
}

func (e *DrillError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Exercise != "" && e.Command != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Exercise, e.Command, msg)
	}
	if e.Exercise != "" {
		return fmt.Sprintf("[%s] %s", e.Exercise, msg)
	}
	return msg
}

func (e *DrillError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *DrillError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *DrillError {
	return &DrillError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *DrillError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *DrillError {
	return &DrillError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *DrillError {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *DrillError {
	return &DrillError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *DrillError {
	return Environment(fmt.Sprintf(format, args...))
}

// NoWorkspace returns the environment error for a missing workspace.
func NoWorkspace() *DrillError {
	return Environment(MsgNoWorkspace)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *DrillError {
	return &DrillError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// ExerciseError creates an error for a specific exercise.
func ExerciseError(exercise, command, message string) *DrillError {
	return &DrillError{
		Kind:     KindRuntime,
		Exercise: exercise,
		Command:  command,
		Message:  message,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *DrillError {
	return &DrillError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// IsKind reports whether err is, or wraps, a DrillError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *DrillError
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var de *DrillError
	if errors.As(err, &de) {
		return de.ExitCode()
	}
	return ExitRuntimeError
}
