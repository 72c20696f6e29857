// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"time"

	"go.trai.ch/zapret/internal/core/domain"
)

// Executor runs shell command strings against one target environment.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Label identifies the backend and target for diagnostics, e.g. "docker:zapret2-openwrt".
	Label() string

	// Execute runs command through the target's shell and waits for it.
	//
	// A zero timeout means domain.DefaultExecTimeout. On success the captured
	// stdout and stderr are returned unaltered. Every failure is a *domain.ExecError
	// carrying the output captured before the failure.
	Execute(ctx context.Context, command string, timeout time.Duration) (domain.ExecResult, error)
}

// ExecutorProvider hands out the executor selected at startup.
type ExecutorProvider interface {
	// Current returns the executor, or domain.ErrExecutorNotInitialized.
	Current() (Executor, error)
}
