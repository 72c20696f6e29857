// Package domain contains the core types for command execution and diagnostic logs.
package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ExecResult is the captured output of a command that exited zero.
type ExecResult struct {
	Stdout string
	Stderr string
}

// ExecErrorKind classifies why a command did not succeed.
type ExecErrorKind uint8

const (
	// ExecSpawn means the backend could not start the command at all.
	ExecSpawn ExecErrorKind = iota
	// ExecExit means the command ran and exited non-zero.
	ExecExit
	// ExecTimeout means the command exceeded its timeout and was killed.
	ExecTimeout
	// ExecTransport means the container or remote host could not be reached.
	ExecTransport
	// ExecCancelled means the caller's context ended before the command finished.
	ExecCancelled
)

// String returns the kind name used in logs and span attributes.
func (k ExecErrorKind) String() string {
	switch k {
	case ExecSpawn:
		return "spawn"
	case ExecExit:
		return "exit"
	case ExecTimeout:
		return "timeout"
	case ExecTransport:
		return "transport"
	case ExecCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (k ExecErrorKind) sentinel() error {
	switch k {
	case ExecSpawn:
		return ErrCommandSpawnFailed
	case ExecExit:
		return ErrCommandFailed
	case ExecTimeout:
		return ErrCommandTimedOut
	case ExecTransport:
		return ErrTransportFailed
	case ExecCancelled:
		return ErrCommandCancelled
	default:
		return nil
	}
}

// ExecError is the failure value of Executor.Execute.
// It carries whatever output was captured before the failure.
type ExecError struct {
	Kind     ExecErrorKind
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Timeout  time.Duration
	Err      error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	var msg string
	switch e.Kind {
	case ExecExit:
		msg = fmt.Sprintf("command exited with code %d", e.ExitCode)
	case ExecTimeout:
		msg = fmt.Sprintf("command timed out after %s", e.Timeout)
	default:
		msg = e.Kind.sentinel().Error()
	}
	if e.Err != nil && e.Kind != ExecExit && e.Kind != ExecTimeout {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind, so errors.Is(err, ErrCommandTimedOut) works.
func (e *ExecError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Output returns stdout followed by stderr.
func (e *ExecError) Output() string {
	return e.Stdout + e.Stderr
}

// Diagnostic returns the most useful text for an operator: stderr, then stdout, then the cause.
func (e *ExecError) Diagnostic() string {
	switch {
	case e.Stderr != "":
		return e.Stderr
	case e.Stdout != "":
		return e.Stdout
	default:
		return e.Error()
	}
}

// ContextFailure classifies a command stopped by its run context. The caller's
// own cancellation is not a timeout: only the deadline set for the command is.
func ContextFailure(parent context.Context) (ExecErrorKind, error) {
	if err := parent.Err(); err != nil {
		return ExecCancelled, err
	}
	return ExecTimeout, context.DeadlineExceeded
}

// AsExecError unwraps err to an *ExecError.
func AsExecError(err error) (*ExecError, bool) {
	var execErr *ExecError
	if errors.As(err, &execErr) {
		return execErr, true
	}
	return nil, false
}

// DiagnosticText picks stderr, stdout or the error message from any error,
// falling back to "unknown error" for nil or empty errors.
func DiagnosticText(err error) string {
	if execErr, ok := AsExecError(err); ok {
		if text := execErr.Diagnostic(); text != "" {
			return text
		}
	}
	if err != nil && strings.TrimSpace(err.Error()) != "" {
		return err.Error()
	}
	return "unknown error"
}

// OutputText returns stdout+stderr for command failures, or the error message otherwise.
func OutputText(err error) string {
	if execErr, ok := AsExecError(err); ok {
		if out := execErr.Output(); out != "" {
			return out
		}
	}
	return DiagnosticText(err)
}
