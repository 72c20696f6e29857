package config

// File is the structure of ~/.zapret2-mcp/config.yaml.
// Pointer fields distinguish "absent" from zero values.
type File struct {
	Mode      *string  `yaml:"mode"`
	Container *string  `yaml:"container"`
	SSH       *SSHFile `yaml:"ssh"`
	LogDir    *string  `yaml:"logDir"`
	Log       *LogFile `yaml:"log"`
	Trace     *bool    `yaml:"trace"`
}

// SSHFile is the ssh section of the config file.
type SSHFile struct {
	Host       *string `yaml:"host"`
	User       *string `yaml:"user"`
	Port       *int    `yaml:"port"`
	Key        *string `yaml:"key"`
	KnownHosts *string `yaml:"knownHosts"`
}

// LogFile is the log section of the config file.
type LogFile struct {
	Format *string `yaml:"format"`
}

// Environment variables read by the loader.
const (
	EnvConfig     = "ZAPRET2_CONFIG"
	EnvMode       = "ZAPRET2_MODE"
	EnvContainer  = "ZAPRET2_CONTAINER_NAME"
	EnvSSHHost    = "ZAPRET2_SSH_HOST"
	EnvSSHUser    = "ZAPRET2_SSH_USER"
	EnvSSHPort    = "ZAPRET2_SSH_PORT"
	EnvSSHKey     = "ZAPRET2_SSH_KEY"
	EnvKnownHosts = "ZAPRET2_SSH_KNOWN_HOSTS"
	EnvLogDir     = "ZAPRET2_LOG_DIR"
	EnvLogFormat  = "ZAPRET2_LOG_FORMAT"
	EnvTrace      = "ZAPRET2_TRACE"
)
