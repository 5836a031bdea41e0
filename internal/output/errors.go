package output

import (
	"errors"
	"fmt"
)

// CLIError is a user-facing error with an optional suggested fix.
type CLIError struct {
	Message string
	Cause   error
	Fix     string
}

func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

func NewError(message string) *CLIError {
	return &CLIError{Message: message}
}

func NewErrorWithFix(message, fix string) *CLIError {
	return &CLIError{Message: message, Fix: fix}
}

func WrapError(err error, message string) *CLIError {
	return &CLIError{Message: message, Cause: err}
}

func WrapErrorWithFix(err error, message, fix string) *CLIError {
	return &CLIError{Message: message, Cause: err, Fix: fix}
}

// PrintError prints err to the log with its suggested fix, if any. In JSON
// mode it writes an error envelope instead.
func PrintError(err error) {
	if JSONMode {
		JSONError(err)
		return
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		Error(err.Error())
		if cliErr.Fix != "" {
			if NoColor() {
				Info("Fix: " + cliErr.Fix)
			} else {
				Info("💡 " + cliErr.Fix)
			}
		}
		return
	}
	Error(err.Error())
}
