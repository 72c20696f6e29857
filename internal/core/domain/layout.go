package domain

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for log files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the permission for files holding host keys (rw-------).
	PrivateFilePerm = 0o600
)

const (
	// AppName is the MCP server name and the CLI binary name.
	AppName = "zapret2-mcp"

	// StateDirName is the per-user directory holding logs and the optional config file.
	StateDirName = ".zapret2-mcp"

	// ConfigFileName is the optional YAML config file inside StateDirName.
	ConfigFileName = "config.yaml"

	// LogsDirName is the log root inside StateDirName.
	LogsDirName = "logs"
)

const (
	// DefaultExecTimeout applies when a caller passes a zero timeout.
	DefaultExecTimeout = 30 * time.Second

	// SSHConnectTimeout bounds dial plus handshake for the remote-shell backend.
	SSHConnectTimeout = 10 * time.Second

	// MaxOutputBytes caps each captured stream.
	MaxOutputBytes = 10 * 1024 * 1024
)

// DefaultLogDir returns ~/.zapret2-mcp/logs, or a relative path when the home directory is unknown.
func DefaultLogDir() string {
	return filepath.Join(homeDir(), StateDirName, LogsDirName)
}

// DefaultConfigPath returns ~/.zapret2-mcp/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), StateDirName, ConfigFileName)
}

// DefaultKnownHostsPath returns ~/.ssh/known_hosts.
func DefaultKnownHostsPath() string {
	return filepath.Join(homeDir(), ".ssh", "known_hosts")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(homeDir(), rest)
	}
	return path
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
