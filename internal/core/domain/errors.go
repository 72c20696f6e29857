package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigInvalid is returned when startup configuration cannot be used.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrConfigReadFailed is returned when the config file exists but cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrExecutorNotInitialized is returned when the executor is requested before startup selected one.
	ErrExecutorNotInitialized = zerr.New("command executor not initialized")

	// ErrCommandSpawnFailed marks a command that could not be started.
	ErrCommandSpawnFailed = zerr.New("failed to start command")

	// ErrCommandFailed marks a command that ran and exited non-zero.
	ErrCommandFailed = zerr.New("command failed")

	// ErrCommandTimedOut marks a command that was killed after exceeding its timeout.
	ErrCommandTimedOut = zerr.New("command timed out")

	// ErrCommandCancelled marks a command abandoned because its caller went away.
	ErrCommandCancelled = zerr.New("command cancelled")

	// ErrTransportFailed marks a failure to reach the container or remote host.
	ErrTransportFailed = zerr.New("transport failure")

	// ErrInvalidLogCategory is returned for a category outside the fixed set.
	ErrInvalidLogCategory = zerr.New("invalid log category")

	// ErrInvalidLogURI is returned when a resource locator cannot be parsed.
	ErrInvalidLogURI = zerr.New("invalid log resource uri")

	// ErrLogNotFound is returned by callers that require a log entry to exist.
	ErrLogNotFound = zerr.New("log not found")

	// ErrLogStoreCreateFailed is returned when a category directory cannot be created.
	ErrLogStoreCreateFailed = zerr.New("failed to create log directory")

	// ErrLogStoreWriteFailed is returned when a log file cannot be written.
	ErrLogStoreWriteFailed = zerr.New("failed to write log")

	// ErrLogStoreReadFailed is returned when a log file or directory cannot be read.
	ErrLogStoreReadFailed = zerr.New("failed to read log")

	// ErrLogStoreMarshalFailed is returned when log metadata cannot be serialized.
	ErrLogStoreMarshalFailed = zerr.New("failed to marshal log metadata")

	// ErrWatcherStartFailed is returned when the log directory watcher cannot start.
	ErrWatcherStartFailed = zerr.New("failed to start log watcher")

	// ErrServeFailed is returned when the MCP transport stops with an error.
	ErrServeFailed = zerr.New("mcp server failed")
)
