// Package ssh implements the remote-shell executor backend on golang.org/x/crypto/ssh.
package ssh

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"go.trai.ch/zapret/internal/adapters/capture"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/crypto/ssh"
)

var _ ports.Executor = (*Executor)(nil)

// Executor opens one connection per command and runs it through the remote login shell.
type Executor struct {
	cfg      domain.SSHConfig
	addr     string
	hostKeys *HostKeys
	dialer   net.Dialer
}

// New creates a remote-shell executor. Empty user, port and known_hosts
// fields take their defaults.
func New(cfg domain.SSHConfig) *Executor {
	if cfg.User == "" {
		cfg.User = domain.DefaultSSHUser
	}
	if cfg.Port == 0 {
		cfg.Port = domain.DefaultSSHPort
	}
	if cfg.KnownHosts == "" {
		cfg.KnownHosts = domain.DefaultKnownHostsPath()
	}
	cfg.KeyPath = domain.ExpandHome(cfg.KeyPath)
	cfg.KnownHosts = domain.ExpandHome(cfg.KnownHosts)

	return &Executor{
		cfg:      cfg,
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		hostKeys: NewHostKeys(cfg.KnownHosts),
	}
}

// Label implements ports.Executor.
func (e *Executor) Label() string {
	return e.cfg.Label()
}

// Execute implements ports.Executor.
func (e *Executor) Execute(ctx context.Context, command string, timeout time.Duration) (domain.ExecResult, error) {
	if timeout <= 0 {
		timeout = domain.DefaultExecTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	failure := &domain.ExecError{Command: command, ExitCode: -1, Timeout: timeout}

	client, release, err := e.connect(runCtx)
	if err != nil {
		failure.Kind = domain.ExecTransport
		failure.Err = err
		if runCtx.Err() != nil {
			failure.Kind, failure.Err = domain.ContextFailure(ctx)
		}
		return domain.ExecResult{}, failure
	}
	defer release()
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		failure.Kind = domain.ExecTransport
		failure.Err = zerr.Wrap(err, "open session")
		return domain.ExecResult{}, failure
	}
	defer func() { _ = session.Close() }()

	stdout := capture.NewBuffer(domain.MaxOutputBytes)
	stderr := capture.NewBuffer(domain.MaxOutputBytes)
	session.Stdout = stdout
	session.Stderr = stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case err = <-done:
	case <-runCtx.Done():
		_ = session.Signal(ssh.SIGKILL)
		_ = client.Close()
		<-done
		failure.Kind, failure.Err = domain.ContextFailure(ctx)
		failure.Stdout = stdout.String()
		failure.Stderr = stderr.String()
		return domain.ExecResult{}, failure
	}

	if err == nil {
		return domain.ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}, nil
	}

	failure.Stdout = stdout.String()
	failure.Stderr = stderr.String()
	failure.Err = err

	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		failure.Kind = domain.ExecExit
		failure.ExitCode = exitErr.ExitStatus()
	} else {
		failure.Kind = domain.ExecTransport
	}
	return domain.ExecResult{}, failure
}

// connect dials and completes the handshake within domain.SSHConnectTimeout.
// The returned release func frees agent resources held for authentication.
func (e *Executor) connect(ctx context.Context) (*ssh.Client, func(), error) {
	auth, release, err := authMethods(e.cfg.KeyPath)
	if err != nil {
		return nil, nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, domain.SSHConnectTimeout)
	defer cancel()

	conn, err := e.dialer.DialContext(connectCtx, "tcp", e.addr)
	if err != nil {
		release()
		return nil, nil, zerr.With(zerr.Wrap(err, "dial"), "addr", e.addr)
	}
	if deadline, ok := connectCtx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, e.addr, &ssh.ClientConfig{
		User:            e.cfg.User,
		Auth:            auth,
		HostKeyCallback: e.hostKeys.Callback,
		Timeout:         domain.SSHConnectTimeout,
	})
	if err != nil {
		_ = conn.Close()
		release()
		return nil, nil, zerr.With(zerr.Wrap(err, "handshake"), "addr", e.addr)
	}
	_ = conn.SetDeadline(time.Time{})

	return ssh.NewClient(c, chans, reqs), release, nil
}
