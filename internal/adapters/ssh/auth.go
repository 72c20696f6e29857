package ssh

import (
	"errors"
	"net"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// defaultKeyFiles are tried, in order, when no key file is configured.
var defaultKeyFiles = []string{"id_ed25519", "id_ecdsa", "id_rsa"}

// authMethods returns non-interactive public key auth only.
// With keyPath set that key is the sole identity. Otherwise agent keys are
// offered first, then any readable, unencrypted default key.
func authMethods(keyPath string) ([]ssh.AuthMethod, func(), error) {
	if keyPath != "" {
		signer, err := loadKey(keyPath)
		if err != nil {
			return nil, nil, zerr.With(zerr.Wrap(err, "load ssh key"), "path", keyPath)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, func() {}, nil
	}

	var (
		signers []ssh.Signer
		release = func() {}
	)

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			if agentSigners, err := agent.NewClient(conn).Signers(); err == nil {
				signers = append(signers, agentSigners...)
			}
			release = func() { _ = conn.Close() }
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		for _, name := range defaultKeyFiles {
			signer, err := loadKey(filepath.Join(home, ".ssh", name))
			if err != nil {
				continue
			}
			signers = append(signers, signer)
		}
	}

	if len(signers) == 0 {
		release()
		return nil, nil, errors.New("no usable ssh identity: set a key file or load one into the agent")
	}
	return []ssh.AuthMethod{ssh.PublicKeys(signers...)}, release, nil
}

func loadKey(path string) (ssh.Signer, error) {
	pem, err := os.ReadFile(path) //nolint:gosec // operator-configured key path
	if err != nil {
		return nil, err
	}
	return ssh.ParsePrivateKey(pem)
}
