package cli

import (
	"errors"
	"fmt"

	"galaxy-launch/internal/launcher"
)

// Exit codes returned by galaxy-launch.
const (
	ExitOK = 0

	// ExitFailure covers usage errors, bad configuration and anything else
	// not listed below.
	ExitFailure = 1

	// ExitNoMatch means the workflow was imported but its copy could not be
	// located afterwards.
	ExitNoMatch = 2

	// ExitResolutionFailed means a Galaxy API call failed.
	ExitResolutionFailed = 3
)

// ExitError represents a command execution failure with a specific exit code.
//
// This error type allows Cobra RunE functions to signal non-zero exit codes
// without calling os.Exit() directly, enabling testable CLI behavior.
// When a command fails, it returns an *ExitError, which propagates up to
// [RunWithConfig] where [IsExitError] extracts the code for [ExecuteResult].
type ExitError struct {
	// Code is the exit code to return to the shell.
	Code int

	// Err is the failure that caused the exit, if any.
	Err error
}

// Error implements the error interface. Without a wrapped error the format
// is "exit status N", matching os/exec.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitErrorFor wraps err with the exit code matching its category.
func exitErrorFor(err error) *ExitError {
	code := ExitFailure
	switch {
	case errors.Is(err, launcher.ErrNoMatchFound):
		code = ExitNoMatch
	case errors.Is(err, launcher.ErrResolutionFailed):
		code = ExitResolutionFailed
	}
	return &ExitError{Code: code, Err: err}
}

// IsExitError checks if an error is an [ExitError] and extracts its exit code.
//
// Returns (code, true) if err is or wraps an *ExitError. Returns (0, false)
// for nil or other errors.
func IsExitError(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
