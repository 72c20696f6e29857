package domain

import "time"

// OperationResult is what an operation handler returns to its caller.
type OperationResult struct {
	Text    string
	IsError bool
}

// Success builds a non-error result.
func Success(text string) OperationResult {
	return OperationResult{Text: text}
}

// Failure builds an error result.
func Failure(text string) OperationResult {
	return OperationResult{Text: text, IsError: true}
}

// IPVersion is the blockcheck protocol selector.
type IPVersion string

const (
	// IPv4 tests over IPv4 only.
	IPv4 IPVersion = "4"
	// IPv6 tests over IPv6 only.
	IPv6 IPVersion = "6"
	// IPv46 tests both protocols.
	IPv46 IPVersion = "46"
)

// BlockcheckRequest parameterises a strategy scan.
type BlockcheckRequest struct {
	Domain    string
	IPVersion IPVersion
}

// InstallRequest parameterises an installation.
type InstallRequest struct {
	Version string
	Force   bool
}

// VerifyRequest parameterises a bypass check.
type VerifyRequest struct {
	Domain  string
	Timeout time.Duration
}

// DNSMethod selects how the resolver is configured.
type DNSMethod string

const (
	// DNSResolvConf rewrites /etc/resolv.conf.
	DNSResolvConf DNSMethod = "resolv.conf"
	// DNSSystemdResolved edits /etc/systemd/resolved.conf.
	DNSSystemdResolved DNSMethod = "systemd-resolved"
)

// CustomResolver is the resolver value that defers to DNSRequest.CustomResolver.
const CustomResolver = "custom"

// DNSRequest parameterises resolver configuration.
type DNSRequest struct {
	Resolver       string
	CustomResolver string
	Method         DNSMethod
}

const (
	// DefaultDomain is probed when the caller names none.
	DefaultDomain = "example.com"
	// DefaultZapretVersion is installed when the caller names none.
	DefaultZapretVersion = "v0.9.4.1"
	// DefaultVerifyTimeout bounds the HTTP probe of a bypass check.
	DefaultVerifyTimeout = 10 * time.Second
)
