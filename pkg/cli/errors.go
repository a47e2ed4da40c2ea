package cli

import "fmt"

// Process exit codes. The validate and start commands map pipeline
// outcomes onto these so scripts can branch on the result.
const (
	// ExitOK means the configuration validated cleanly (warnings allowed).
	ExitOK = 0
	// ExitValidationFailed means one or more validation errors were found.
	ExitValidationFailed = 1
	// ExitLoadFailed means the document could not be read or parsed, so
	// validation never ran.
	ExitLoadFailed = 2
)

// ExitError carries a specific process exit code up to Execute.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Exit wraps an error with an exit code.
func Exit(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// Exitf wraps a formatted message with an exit code.
func Exitf(code int, format string, args ...interface{}) *ExitError {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// CommandError represents a failure of a command's own machinery
// (storage, filesystem, serialization), as opposed to a configuration
// problem in the validated document.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}
