// Package shell provides the direct shell and container executor backends.
package shell

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"go.trai.ch/zapret/internal/adapters/capture"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
)

var _ ports.Executor = (*Executor)(nil)

// waitDelay bounds how long Wait keeps reading pipes after the process is gone,
// e.g. when a background child inherited stdout.
const waitDelay = 2 * time.Second

// Executor runs a command by appending it to a fixed argv prefix.
type Executor struct {
	label    string
	prefix   []string
	classify func(exitCode int, stderr string) domain.ExecErrorKind
}

// NewCommand creates an executor that runs prefix followed by the command string.
// Non-zero exits are reported as domain.ExecExit.
func NewCommand(label string, prefix ...string) *Executor {
	return &Executor{
		label:    label,
		prefix:   prefix,
		classify: func(int, string) domain.ExecErrorKind { return domain.ExecExit },
	}
}

// NewLocal creates the direct shell backend: bash -c <command>.
func NewLocal() *Executor {
	return NewCommand("local", "bash", "-c")
}

// Label implements ports.Executor.
func (e *Executor) Label() string {
	return e.label
}

// Execute implements ports.Executor.
func (e *Executor) Execute(ctx context.Context, command string, timeout time.Duration) (domain.ExecResult, error) {
	if timeout <= 0 {
		timeout = domain.DefaultExecTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, e.prefix...), command)
	cmd := exec.CommandContext(runCtx, args[0], args[1:]...) //nolint:gosec // running operator commands is the purpose
	stdout := capture.NewBuffer(domain.MaxOutputBytes)
	stderr := capture.NewBuffer(domain.MaxOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	err := cmd.Run()
	if err == nil || (errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil && cmd.ProcessState.Success()) {
		return domain.ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}, nil
	}

	failure := &domain.ExecError{
		Command:  command,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
		Timeout:  timeout,
		Err:      err,
	}

	var exitErr *exec.ExitError
	switch {
	case runCtx.Err() != nil:
		failure.Kind, failure.Err = domain.ContextFailure(ctx)
	case cmd.Process == nil:
		failure.Kind = domain.ExecSpawn
	case errors.As(err, &exitErr):
		failure.ExitCode = exitErr.ExitCode()
		failure.Kind = e.classify(failure.ExitCode, failure.Stderr)
	default:
		failure.Kind = domain.ExecTransport
	}

	return domain.ExecResult{}, failure
}

// containerFailureMarkers prefix the docker CLI's own error output when the
// container was never reached.
var containerFailureMarkers = []string{
	"Error response from daemon",
	"Error: No such container",
	"Cannot connect to the Docker daemon",
}

// dockerCLIExitCode is what docker exec returns for its own failures.
const dockerCLIExitCode = 125

// NewContainer creates the container backend: docker exec <name> bash -c <command>.
// An empty name selects domain.DefaultContainerName.
func NewContainer(name string) *Executor {
	if name == "" {
		name = domain.DefaultContainerName
	}
	e := NewCommand("docker:"+name, "docker", "exec", name, "bash", "-c")
	e.classify = classifyContainerExit
	return e
}

func classifyContainerExit(exitCode int, stderr string) domain.ExecErrorKind {
	if exitCode == dockerCLIExitCode {
		return domain.ExecTransport
	}
	stderr = strings.TrimSpace(stderr)
	for _, marker := range containerFailureMarkers {
		if strings.HasPrefix(stderr, marker) {
			return domain.ExecTransport
		}
	}
	return domain.ExecExit
}
