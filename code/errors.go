package code

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/gridrun/bridge"
	"github.com/jonwraymond/gridrun/sim"
)

// Sentinel errors for error classification.
var (
	// ErrCodeExecution indicates an error during script execution, such as
	// syntax errors or uncaught exceptions in the script.
	ErrCodeExecution = errors.New("code execution error")

	// ErrConfiguration indicates an invalid or incomplete configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrLimitExceeded indicates that an execution limit was reached,
	// such as the timeout or the step limit.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrUnsupportedLanguage indicates that no engine can run the language.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrRuntimeUnavailable indicates the interpreter could not be started
	// or is not ready yet.
	ErrRuntimeUnavailable = errors.New("runtime unavailable")
)

// CodeError represents an error that occurred during script execution.
// It includes optional source location information for debugging.
type CodeError struct {
	// Message describes the error.
	Message string

	// Line is the 1-based line number where the error occurred.
	// Zero indicates the line is unknown.
	Line int

	// Column is the 1-based column number where the error occurred.
	// Zero indicates the column is unknown.
	Column int

	// Err is the underlying error, if any.
	Err error
}

// Error returns the error message, including line and column if available.
func (e *CodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d, col %d)", e.Message, e.Line, e.Column)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *CodeError) Unwrap() error {
	return e.Err
}

// Is reports whether this error matches the target.
// CodeError matches ErrCodeExecution to allow sentinel-style error checking.
func (e *CodeError) Is(target error) bool {
	return target == ErrCodeExecution
}

// IsScriptFailure reports whether err ended a run that still produced a
// complete trace.
func IsScriptFailure(err error) bool {
	var codeErr *CodeError
	return errors.As(err, &codeErr)
}

// StepLimitError builds the CodeError for a script that ran out of moves.
// It matches ErrLimitExceeded, ErrCodeExecution and sim.ErrStepLimitExceeded.
func StepLimitError(err error) *CodeError {
	return &CodeError{
		Message: err.Error(),
		Err:     fmt.Errorf("%w: %w", ErrLimitExceeded, err),
	}
}

// TimeoutError builds the CodeError for a run stopped by its deadline.
func TimeoutError(timeout time.Duration) *CodeError {
	return &CodeError{
		Message: fmt.Sprintf("execution timed out after %v", timeout),
		Err:     fmt.Errorf("%w: timeout after %v: %w", ErrLimitExceeded, timeout, context.DeadlineExceeded),
	}
}

// scriptError converts engine errors that describe script-level failures
// into CodeErrors. It returns false for infrastructure errors.
func scriptError(err error, timeout time.Duration) (*CodeError, bool) {
	var codeErr *CodeError
	switch {
	case errors.As(err, &codeErr):
		return codeErr, true
	case errors.Is(err, context.DeadlineExceeded):
		return TimeoutError(timeout), true
	case errors.Is(err, context.Canceled):
		return &CodeError{Message: "execution canceled", Err: err}, true
	case errors.Is(err, sim.ErrStepLimitExceeded):
		return StepLimitError(err), true
	case errors.Is(err, bridge.ErrInvalidArgument):
		return &CodeError{Message: err.Error(), Err: err}, true
	}
	return nil, false
}
