// Package app implements the zapret2 operations on top of the current executor and the log store.
package app

import (
	"context"
	"net/netip"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	blockcheckTimeout   = 300 * time.Second
	prerequisiteTimeout = 15 * time.Second
	installTimeout      = 120 * time.Second
	detectTimeout       = 10 * time.Second
	dnsTimeout          = 15 * time.Second
	systemdTimeout      = 30 * time.Second
	removeTimeout       = 60 * time.Second
	verifyGrace         = 5 * time.Second

	// blockcheck2.sh may exit non-zero after a complete scan.
	blockcheckUsableOutput = 100
)

var (
	configKeyPattern  = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	ipv4Pattern       = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
	blockcheckPattern = regexp.MustCompile(`(?i)AVAILABLE|summary|strategy|nfqws2`)

	knownResolvers = []string{"1.1.1.1", "8.8.8.8", "9.9.9.9", domain.CustomResolver}
)

// App runs zapret2 operations.
type App struct {
	executors ports.ExecutorProvider
	logs      ports.LogStore
	logger    ports.Logger
}

// New creates a new App instance.
func New(executors ports.ExecutorProvider, logs ports.LogStore, log ports.Logger) *App {
	return &App{
		executors: executors,
		logs:      logs,
		logger:    log,
	}
}

// ExecutorLabel returns the label of the current executor, or "uninitialized".
func (a *App) ExecutorLabel() string {
	executor, err := a.executors.Current()
	if err != nil {
		return "uninitialized"
	}
	return executor.Label()
}

// Exec runs an arbitrary command on the current executor.
func (a *App) Exec(ctx context.Context, command string, timeout time.Duration) (domain.ExecResult, error) {
	executor, err := a.executors.Current()
	if err != nil {
		return domain.ExecResult{}, err
	}
	return executor.Execute(ctx, command, timeout)
}

// ListLogs returns stored entries of category, or of every category when empty.
func (a *App) ListLogs(category domain.LogCategory) ([]domain.LogEntry, error) {
	return a.logs.List(category)
}

// ReadLog returns the content of one entry or an error wrapping domain.ErrLogNotFound.
func (a *App) ReadLog(category domain.LogCategory, timestamp string) (string, error) {
	content, ok, err := a.logs.Read(category, timestamp)
	if err != nil {
		return "", err
	}
	if !ok {
		name := string(category) + "/" + timestamp
		return "", zerr.With(zerr.Wrap(domain.ErrLogNotFound, "Log not found: "+name), "uri", domain.LogURI(category, timestamp))
	}
	return content, nil
}

// GetStatus reports whether nfqws2 runs and how many firewall rules are loaded.
func (a *App) GetStatus(ctx context.Context) domain.OperationResult {
	return a.probe(ctx, statusScript, 0)
}

// StartService starts the zapret2 daemon through its init script.
func (a *App) StartService(ctx context.Context) domain.OperationResult {
	return a.serviceAction(ctx, "start", "Service started")
}

// StopService stops the zapret2 daemon.
func (a *App) StopService(ctx context.Context) domain.OperationResult {
	return a.serviceAction(ctx, "stop", "Service stopped")
}

// RestartService restarts the zapret2 daemon.
func (a *App) RestartService(ctx context.Context) domain.OperationResult {
	return a.serviceAction(ctx, "restart", "Service restarted")
}

func (a *App) serviceAction(ctx context.Context, action, fallback string) domain.OperationResult {
	res, err := a.Exec(ctx, serviceScript(action), 0)
	if err != nil {
		return domain.Failure("Error: " + domain.OutputText(err))
	}

	output := strings.TrimSpace(res.Stdout + res.Stderr)
	if output == "" {
		output = fallback
	}
	a.saveLog(domain.LogService, output, map[string]string{"action": action})
	return domain.Success(output)
}

// GetConfig returns the config file, or the line for key when key is set.
func (a *App) GetConfig(ctx context.Context, key string) domain.OperationResult {
	if key == "" {
		return a.probe(ctx, readConfigScript, 0)
	}
	if !configKeyPattern.MatchString(key) {
		return invalidKey()
	}
	return a.probe(ctx, withVars(readConfigKeyScript, [2]string{"KEY", key}), 0)
}

// UpdateConfig sets key to value, saving a snapshot of the file first.
func (a *App) UpdateConfig(ctx context.Context, key, value string) domain.OperationResult {
	if !configKeyPattern.MatchString(key) {
		return invalidKey()
	}

	snapshot, err := a.Exec(ctx, readConfigScript, 0)
	if err != nil {
		return domain.Failure("Error: " + domain.DiagnosticText(err))
	}
	a.saveLog(domain.LogConfig, snapshot.Stdout, map[string]string{"key": key, "value": value})

	script := withVars(updateConfigScript, [2]string{"KEY", key}, [2]string{"VALUE", value})
	return a.probe(ctx, script, 0)
}

func invalidKey() domain.OperationResult {
	return domain.Failure("Error: key must contain only alphanumeric characters and underscores")
}

// RunBlockcheck scans for working bypass strategies and stores the full transcript.
func (a *App) RunBlockcheck(ctx context.Context, req domain.BlockcheckRequest) domain.OperationResult {
	if req.Domain == "" {
		req.Domain = domain.DefaultDomain
	}
	switch req.IPVersion {
	case "":
		req.IPVersion = domain.IPv4
	case domain.IPv4, domain.IPv6, domain.IPv46:
	default:
		return domain.Failure("Error: ipVersion must be one of 4, 6, 46")
	}

	meta := map[string]string{"domain": req.Domain, "ipVersion": string(req.IPVersion)}
	script := withVars(blockcheckScript,
		[2]string{"DOMAIN", req.Domain},
		[2]string{"IP_VERSION", string(req.IPVersion)},
	)

	res, err := a.Exec(ctx, script, blockcheckTimeout)
	if err == nil {
		return a.blockcheckReport(strings.TrimSpace(res.Stdout), meta)
	}

	var output string
	if execErr, ok := domain.AsExecError(err); ok {
		output = execErr.Output()
		if len(execErr.Stdout) > blockcheckUsableOutput {
			return a.blockcheckReport(strings.TrimSpace(output), meta)
		}
	}
	if output != "" {
		meta["error"] = "true"
		a.saveLog(domain.LogBlockcheck, output, meta)
	} else {
		output = domain.DiagnosticText(err)
	}
	return domain.Failure("Error running blockcheck2: " + output)
}

func (a *App) blockcheckReport(output string, meta map[string]string) domain.OperationResult {
	ts := a.saveLog(domain.LogBlockcheck, output, meta)

	var matched []string
	for line := range strings.SplitSeq(output, "\n") {
		if blockcheckPattern.MatchString(line) {
			matched = append(matched, line)
		}
	}
	text := strings.Join(matched, "\n")
	if text == "" {
		text = "No AVAILABLE strategies found"
	}
	if ts != "" {
		text += "\n\nFull log: " + domain.LogURI(domain.LogBlockcheck, ts)
	}
	return domain.Success(text)
}

// CheckPrerequisites reports tools, architecture and connectivity as JSON.
func (a *App) CheckPrerequisites(ctx context.Context) domain.OperationResult {
	return a.probe(ctx, prerequisitesScript, prerequisiteTimeout)
}

// DetectSystem reports OS, init system and network facts as JSON.
func (a *App) DetectSystem(ctx context.Context) domain.OperationResult {
	return a.probe(ctx, detectSystemScript, detectTimeout)
}

// InstallZapret clones zapret2, installs release binaries and writes a base config.
func (a *App) InstallZapret(ctx context.Context, req domain.InstallRequest) domain.OperationResult {
	if req.Version == "" {
		req.Version = domain.DefaultZapretVersion
	}
	script := withVars(installScript,
		[2]string{"VERSION", req.Version},
		[2]string{"FORCE", strconv.FormatBool(req.Force)},
	)

	res, err := a.Exec(ctx, script, installTimeout)
	if err != nil {
		output := rawOutput(err)
		if output != "" {
			a.saveLog(domain.LogService, output, map[string]string{"action": "install", "version": req.Version, "error": "true"})
		} else {
			output = domain.DiagnosticText(err)
		}
		return domain.Failure("Error installing zapret2: " + output)
	}

	output := strings.TrimSpace(res.Stdout + res.Stderr)
	if strings.HasPrefix(output, "ALREADY_INSTALLED") {
		return domain.Success("zapret2 is already installed at " + InstallDir + ". Use force=true to reinstall.")
	}
	a.saveLog(domain.LogService, output, map[string]string{"action": "install", "version": req.Version})
	return domain.Success(output)
}

// VerifyBypass probes DNS, HTTPS and the firewall for one domain.
func (a *App) VerifyBypass(ctx context.Context, req domain.VerifyRequest) domain.OperationResult {
	if req.Domain == "" {
		req.Domain = domain.DefaultDomain
	}
	if req.Timeout <= 0 {
		req.Timeout = domain.DefaultVerifyTimeout
	}
	seconds := int((req.Timeout + time.Second - 1) / time.Second)

	script := withVars(verifyScript,
		[2]string{"DOMAIN", req.Domain},
		[2]string{"TIMEOUT", strconv.Itoa(seconds)},
	)
	return a.probe(ctx, script, time.Duration(seconds)*time.Second+verifyGrace)
}

// ConfigureDNS points the target at one resolver.
func (a *App) ConfigureDNS(ctx context.Context, req domain.DNSRequest) domain.OperationResult {
	if !isKnownResolver(req.Resolver) {
		return domain.Failure("Error: resolver must be one of " + strings.Join(knownResolvers, ", "))
	}

	ip := req.Resolver
	if req.Resolver == domain.CustomResolver {
		ip = strings.TrimSpace(req.CustomResolver)
	}
	if ip == "" {
		return domain.Failure("Error: customResolver is required when resolver='custom'")
	}
	if !isIPv4(ip) {
		return domain.Failure("Error: invalid IP address: " + ip)
	}

	var script string
	switch req.Method {
	case domain.DNSSystemdResolved:
		script = dnsResolvedScript
	case domain.DNSResolvConf:
		script = dnsResolvConfScript
	default:
		return domain.Failure("Error: method must be resolv.conf or systemd-resolved")
	}

	res, err := a.Exec(ctx, withVars(script, [2]string{"DNS_IP", ip}), dnsTimeout)
	if err != nil {
		return domain.Failure("Error: " + domain.DiagnosticText(err))
	}

	output := strings.TrimSpace(res.Stdout + res.Stderr)
	a.saveLog(domain.LogConfig, output, map[string]string{
		"action":   "configureDns",
		"resolver": ip,
		"method":   string(req.Method),
	})
	return domain.Success(output)
}

func isKnownResolver(resolver string) bool {
	for _, r := range knownResolvers {
		if r == resolver {
			return true
		}
	}
	return false
}

func isIPv4(s string) bool {
	if !ipv4Pattern.MatchString(s) {
		return false
	}
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is4()
}

// CreateSystemdService installs the zapret2 unit and optionally enables it.
func (a *App) CreateSystemdService(ctx context.Context, enable bool) domain.OperationResult {
	flag := strconv.FormatBool(enable)
	script := withVars(systemdScript, [2]string{"UNIT", SystemdUnit}, [2]string{"ENABLE", flag})

	res, err := a.Exec(ctx, script, systemdTimeout)
	if err != nil {
		return domain.Failure("Error: " + domain.DiagnosticText(err))
	}

	output := strings.TrimSpace(res.Stdout + res.Stderr)
	a.saveLog(domain.LogService, output, map[string]string{"action": "createSystemdService", "enable": flag})
	return domain.Success(output)
}

// RemoveZapret stops zapret2, removes its firewall rules and unit, and deletes the install.
func (a *App) RemoveZapret(ctx context.Context, force bool) domain.OperationResult {
	res, err := a.Exec(ctx, removeScript, removeTimeout)
	if err != nil {
		output := rawOutput(err)
		if output != "" {
			a.saveLog(domain.LogService, output, map[string]string{"action": "remove", "error": "true"})
		} else {
			output = domain.DiagnosticText(err)
		}
		return domain.Failure("Error removing zapret2: " + output)
	}

	output := strings.TrimSpace(res.Stdout + res.Stderr)
	if strings.HasPrefix(output, "NOT_INSTALLED") {
		return domain.Success(output)
	}
	a.saveLog(domain.LogService, output, map[string]string{"action": "remove", "force": strconv.FormatBool(force)})
	return domain.Success(output)
}

// probe runs a read-only script and returns its trimmed stdout.
func (a *App) probe(ctx context.Context, script string, timeout time.Duration) domain.OperationResult {
	res, err := a.Exec(ctx, script, timeout)
	if err != nil {
		return domain.Failure("Error: " + domain.DiagnosticText(err))
	}
	return domain.Success(strings.TrimSpace(res.Stdout))
}

// saveLog persists a transcript. Failures are logged and yield an empty timestamp.
func (a *App) saveLog(category domain.LogCategory, content string, meta map[string]string) string {
	ts, err := a.logs.Save(category, content, meta)
	if err != nil {
		a.logger.Error(zerr.Wrap(err, "failed to save "+string(category)+" log"))
		return ""
	}
	return ts
}

func rawOutput(err error) string {
	if execErr, ok := domain.AsExecError(err); ok {
		return execErr.Output()
	}
	return ""
}
