// Package executor selects the executor backend and holds the process-wide current one.
package executor

import (
	"go.trai.ch/zapret/internal/adapters/shell"
	"go.trai.ch/zapret/internal/adapters/ssh"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
	"go.trai.ch/zerr"
)

// sshHostRequired is the operator-facing text for ssh mode without a host.
const sshHostRequired = "ZAPRET2_SSH_HOST is required when ZAPRET2_MODE=ssh"

// Select builds a fresh backend for cfg. It has no side effects and never memoizes.
func Select(cfg domain.ExecutorConfig) (ports.Executor, error) {
	mode, err := domain.ParseExecMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	switch mode {
	case domain.ModeLocal:
		return shell.NewLocal(), nil
	case domain.ModeDocker:
		return shell.NewContainer(cfg.Container), nil
	case domain.ModeSSH:
		if cfg.SSH.Host == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, sshHostRequired), "mode", string(mode))
		}
		return ssh.New(cfg.SSH), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unsupported executor mode"), "mode", string(mode))
	}
}
