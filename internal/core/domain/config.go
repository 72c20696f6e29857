package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// ExecMode selects the executor backend.
type ExecMode string

const (
	// ModeLocal runs commands in a local shell.
	ModeLocal ExecMode = "local"
	// ModeDocker runs commands inside a running container.
	ModeDocker ExecMode = "docker"
	// ModeSSH runs commands on a remote host.
	ModeSSH ExecMode = "ssh"
)

const (
	// DefaultContainerName is used when no container name is configured.
	DefaultContainerName = "zapret2-openwrt"
	// DefaultSSHUser is used when no remote user is configured.
	DefaultSSHUser = "root"
	// DefaultSSHPort is used when no remote port is configured.
	DefaultSSHPort = 22
)

// ParseExecMode maps a case-insensitive mode name to an ExecMode.
// The empty string selects the container backend.
func ParseExecMode(s string) (ExecMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "docker", "container":
		return ModeDocker, nil
	case "local":
		return ModeLocal, nil
	case "ssh":
		return ModeSSH, nil
	default:
		mode := strings.ToLower(s)
		return "", zerr.With(
			zerr.Wrap(ErrConfigInvalid, "Unknown ZAPRET2_MODE: "+mode+". Must be local, docker, or ssh"),
			"mode", mode,
		)
	}
}

// SSHConfig holds the remote-shell backend parameters.
type SSHConfig struct {
	Host       string
	User       string
	Port       int
	KeyPath    string
	KnownHosts string
}

// Label renders "ssh:<user>@<host>:<port>".
func (c SSHConfig) Label() string {
	return "ssh:" + c.User + "@" + c.Host + ":" + strconv.Itoa(c.Port)
}

// ExecutorConfig is the input of executor selection.
// Mode holds the raw, unvalidated mode string.
type ExecutorConfig struct {
	Mode      string
	Container string
	SSH       SSHConfig
}

// LogFormat selects the log handler.
type LogFormat string

const (
	// LogFormatAuto picks pretty output on terminals and JSON elsewhere.
	LogFormatAuto LogFormat = "auto"
	// LogFormatPretty forces the coloured handler.
	LogFormatPretty LogFormat = "pretty"
	// LogFormatJSON forces the JSON handler.
	LogFormatJSON LogFormat = "json"
)

// ParseLogFormat validates a log format name. Empty means auto.
func ParseLogFormat(s string) (LogFormat, error) {
	switch LogFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", LogFormatAuto:
		return LogFormatAuto, nil
	case LogFormatPretty:
		return LogFormatPretty, nil
	case LogFormatJSON:
		return LogFormatJSON, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrConfigInvalid, "unknown log format"), "format", s)
	}
}

// Config is the fully resolved startup configuration.
type Config struct {
	Executor  ExecutorConfig
	LogDir    string
	LogFormat LogFormat
	Trace     bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Executor: ExecutorConfig{
			Mode:      string(ModeDocker),
			Container: DefaultContainerName,
			SSH: SSHConfig{
				User:       DefaultSSHUser,
				Port:       DefaultSSHPort,
				KnownHosts: DefaultKnownHostsPath(),
			},
		},
		LogDir:    DefaultLogDir(),
		LogFormat: LogFormatAuto,
	}
}
