// Package config resolves startup configuration from defaults, a YAML file and the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// Loader implements ports.ConfigLoader.
type Loader struct {
	lookup LookupFunc
}

// NewLoader creates a Loader reading the environment through lookup.
// A nil lookup uses os.LookupEnv.
func NewLoader(lookup LookupFunc) *Loader {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Loader{lookup: lookup}
}

// Load implements ports.ConfigLoader.
//
// With an empty path the file named by ZAPRET2_CONFIG is used, falling back to
// ~/.zapret2-mcp/config.yaml. Only the fallback may be missing.
func (l *Loader) Load(path string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	explicit := path != ""
	if !explicit {
		if v := l.env(EnvConfig); v != "" {
			path = v
			explicit = true
		} else {
			path = domain.DefaultConfigPath()
		}
	}
	path = domain.ExpandHome(path)

	file, err := readFile(path)
	if err != nil {
		return nil, err
	}
	switch {
	case file != nil:
		if err := file.apply(&cfg); err != nil {
			return nil, zerr.With(err, "path", path)
		}
	case explicit:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, "config file not found"), "path", path)
	}

	if err := l.applyEnv(&cfg); err != nil {
		return nil, err
	}

	cfg.LogDir = domain.ExpandHome(cfg.LogDir)
	cfg.Executor.SSH.KeyPath = domain.ExpandHome(cfg.Executor.SSH.KeyPath)
	cfg.Executor.SSH.KnownHosts = domain.ExpandHome(cfg.Executor.SSH.KnownHosts)

	return &cfg, nil
}

func (l *Loader) env(key string) string {
	v, ok := l.lookup(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// readFile returns nil without error when path does not exist.
func readFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", path)
	}
	return &file, nil
}

func (f *File) apply(cfg *domain.Config) error {
	set(&cfg.Executor.Mode, f.Mode)
	set(&cfg.Executor.Container, f.Container)
	set(&cfg.LogDir, f.LogDir)
	if f.Trace != nil {
		cfg.Trace = *f.Trace
	}
	if f.Log != nil && f.Log.Format != nil {
		cfg.LogFormat = domain.LogFormat(*f.Log.Format)
	}
	if f.SSH != nil {
		set(&cfg.Executor.SSH.Host, f.SSH.Host)
		set(&cfg.Executor.SSH.User, f.SSH.User)
		set(&cfg.Executor.SSH.KeyPath, f.SSH.Key)
		set(&cfg.Executor.SSH.KnownHosts, f.SSH.KnownHosts)
		if f.SSH.Port != nil {
			if !validPort(*f.SSH.Port) {
				return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "ssh.port must be a port number"), "value", *f.SSH.Port)
			}
			cfg.Executor.SSH.Port = *f.SSH.Port
		}
	}
	return nil
}

func validPort(port int) bool {
	return port > 0 && port <= 65535
}

func set(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func (l *Loader) applyEnv(cfg *domain.Config) error {
	for key, dst := range map[string]*string{
		EnvMode:       &cfg.Executor.Mode,
		EnvContainer:  &cfg.Executor.Container,
		EnvSSHHost:    &cfg.Executor.SSH.Host,
		EnvSSHUser:    &cfg.Executor.SSH.User,
		EnvSSHKey:     &cfg.Executor.SSH.KeyPath,
		EnvKnownHosts: &cfg.Executor.SSH.KnownHosts,
		EnvLogDir:     &cfg.LogDir,
	} {
		if v := l.env(key); v != "" {
			*dst = v
		}
	}

	if v := l.env(EnvSSHPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || !validPort(port) {
			return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "ZAPRET2_SSH_PORT must be a port number"), "value", v)
		}
		cfg.Executor.SSH.Port = port
	}

	if v := l.env(EnvLogFormat); v != "" {
		cfg.LogFormat = domain.LogFormat(v)
	}
	format, err := domain.ParseLogFormat(string(cfg.LogFormat))
	if err != nil {
		return err
	}
	cfg.LogFormat = format

	if v := l.env(EnvTrace); v != "" {
		trace, err := strconv.ParseBool(v)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "ZAPRET2_TRACE must be a boolean"), "value", v)
		}
		cfg.Trace = trace
	}

	return nil
}
