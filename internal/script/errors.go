package script

import "errors"

// Errors for filter scripts.
var (
	// ErrStateClosed is returned when calling into a closed script.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNoFilterFunction is returned when a script does not define filter.
	ErrNoFilterFunction = errors.New("script does not define a filter function")

	// ErrExecutionTimeout is returned when a call runs past its timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")
)

// CompileError wraps a failure to load a script.
type CompileError struct {
	Name string
	Err  error
}

func (e *CompileError) Error() string {
	return "compile " + e.Name + ": " + e.Err.Error()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
