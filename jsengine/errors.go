package jsengine

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/dop251/goja"

	"github.com/jonwraymond/gridrun/bridge"
	"github.com/jonwraymond/gridrun/code"
	"github.com/jonwraymond/gridrun/sim"
)

var syntaxLocation = regexp.MustCompile(`Line (\d+):(\d+)\s*(.*)`)

// syntaxError converts a compile failure into a CodeError located in user code.
func syntaxError(err error) *code.CodeError {
	m := syntaxLocation.FindStringSubmatch(err.Error())
	if m == nil {
		return &code.CodeError{Message: err.Error(), Err: err}
	}
	line, _ := strconv.Atoi(m[1])
	col, _ := strconv.Atoi(m[2])
	msg := "SyntaxError"
	if m[3] != "" {
		msg += ": " + m[3]
	}
	return &code.CodeError{
		Message: msg,
		Line:    max(line-userLineOffset, 0),
		Column:  col,
		Err:     err,
	}
}

// thrownError records a Go error raised into the script by a bridge call.
type thrownError struct {
	value goja.Value
	err   error
}

// exceptionError converts an uncaught exception into a CodeError. Errors
// raised by the bridge keep their Go cause so that callers can match
// sim.ErrStepLimitExceeded or bridge.ErrInvalidArgument.
func exceptionError(exc *goja.Exception, thrown []thrownError) *code.CodeError {
	line, col := location(exc)

	for i := len(thrown) - 1; i >= 0; i-- {
		if exc.Value() == nil || !exc.Value().SameAs(thrown[i].value) {
			continue
		}
		cause := thrown[i].err
		var codeErr *code.CodeError
		if errors.Is(cause, sim.ErrStepLimitExceeded) {
			codeErr = code.StepLimitError(cause)
		} else {
			codeErr = &code.CodeError{Message: cause.Error(), Err: cause}
		}
		codeErr.Line, codeErr.Column = line, col
		return codeErr
	}

	return &code.CodeError{
		Message: exceptionMessage(exc),
		Line:    line,
		Column:  col,
		Err:     exc,
	}
}

func exceptionMessage(exc *goja.Exception) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = exc.Error()
		}
	}()
	if exc.Value() == nil {
		return exc.Error()
	}
	return exc.Value().String()
}

// location returns the user-code position of the innermost frame that lies
// in the learner's program.
func location(exc *goja.Exception) (line, col int) {
	for _, frame := range exc.Stack() {
		if frame.SrcName() != programName {
			continue
		}
		pos := frame.Position()
		if pos.Line <= userLineOffset {
			continue
		}
		return pos.Line - userLineOffset, pos.Column
	}
	return 0, 0
}

// argumentError reports a bridge call made with a value of the wrong type.
func argumentError(name string, v goja.Value) error {
	return fmt.Errorf("%w: %s must be a whole number, got %s", bridge.ErrInvalidArgument, name, v.String())
}

// stackOverflowError reports recursion past the call stack limit.
func stackOverflowError(so *goja.StackOverflowError) *code.CodeError {
	line, col := location(&so.Exception)
	return &code.CodeError{
		Message: "RangeError: Maximum call stack size exceeded",
		Line:    line,
		Column:  col,
		Err:     so,
	}
}
