package ssh

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// ErrHostKeyMismatch reports a host whose key differs from the recorded one.
var ErrHostKeyMismatch = zerr.New("host key mismatch")

// HostKeys verifies server keys against a known_hosts file with accept-new
// semantics: unknown hosts are recorded, changed keys are rejected.
type HostKeys struct {
	path string
	mu   sync.Mutex
}

// NewHostKeys creates a verifier backed by path.
func NewHostKeys(path string) *HostKeys {
	return &HostKeys{path: path}
}

// Callback implements ssh.HostKeyCallback.
func (h *HostKeys) Callback(hostname string, remote net.Addr, key ssh.PublicKey) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := os.Stat(h.path); err == nil {
		check, err := knownhosts.New(h.path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "parse known_hosts"), "path", h.path)
		}
		err = check(hostname, remote, key)
		if err == nil {
			return nil
		}

		var keyErr *knownhosts.KeyError
		if !errors.As(err, &keyErr) || len(keyErr.Want) > 0 {
			return zerr.With(zerr.Wrap(ErrHostKeyMismatch, err.Error()), "host", hostname)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "stat known_hosts"), "path", h.path)
	}

	return h.record(hostname, key)
}

func (h *HostKeys) record(hostname string, key ssh.PublicKey) error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o700); err != nil {
		return zerr.With(zerr.Wrap(err, "create known_hosts dir"), "path", h.path)
	}

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, domain.PrivateFilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "open known_hosts"), "path", h.path)
	}
	defer func() { _ = f.Close() }()

	line := knownhosts.Line([]string{knownhosts.Normalize(hostname)}, key) + "\n"
	if _, err := f.WriteString(line); err != nil {
		return zerr.With(zerr.Wrap(err, "append known_hosts"), "path", h.path)
	}
	return nil
}
