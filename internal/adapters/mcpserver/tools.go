package mcpserver

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.trai.ch/zapret/internal/core/domain"
)

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("getStatus",
				mcp.WithDescription("Get zapret2 service status: running state, PID, firewall rules count, nfqws2 enabled flag. "+
					"Use this first to check if zapret2 is running before making changes."),
				readOnly(),
			),
			Handler: noArgs(s.ops.GetStatus),
		},
		{
			Tool: mcp.NewTool("startService",
				mcp.WithDescription("Start zapret2 service (nfqws2 daemon). Logs saved to resources. "+
					"Use after installZapret and updateConfig NFQWS2_ENABLE=1."),
			),
			Handler: noArgs(s.ops.StartService),
		},
		{
			Tool: mcp.NewTool("stopService",
				mcp.WithDescription("Stop zapret2 service (nfqws2 daemon). Logs saved to resources. Required before runBlockcheck."),
			),
			Handler: noArgs(s.ops.StopService),
		},
		{
			Tool: mcp.NewTool("restartService",
				mcp.WithDescription("Restart zapret2 service (nfqws2 daemon). Logs saved to resources. Use after updateConfig to apply changes."),
			),
			Handler: noArgs(s.ops.RestartService),
		},
		{
			Tool: mcp.NewTool("getConfig",
				mcp.WithDescription("Read zapret2 configuration from /opt/zapret2/config. Optionally filter by a specific key. "+
					"Common keys: NFQWS2_ENABLE, NFQWS2_OPT, MODE, FWTYPE."),
				mcp.WithString("key",
					mcp.Description("Optional config key to read (e.g. NFQWS2_ENABLE, NFQWS2_OPT). If omitted, returns full config."),
				),
				readOnly(),
			),
			Handler: s.getConfig,
		},
		{
			Tool: mcp.NewTool("updateConfig",
				mcp.WithDescription("Update a parameter in zapret2 config (/opt/zapret2/config). Replaces the value of an existing key. "+
					"Config snapshot saved to resources before change. Restart service to apply."),
				mcp.WithString("key", mcp.Required(), mcp.Description("Config key to update (e.g. NFQWS2_ENABLE, NFQWS2_OPT)")),
				mcp.WithString("value", mcp.Required(), mcp.Description("New value for the key")),
			),
			Handler: s.updateConfig,
		},
		{
			Tool: mcp.NewTool("runBlockcheck",
				mcp.WithDescription("Run blockcheck2.sh to find working network strategies for a domain. "+
					"Stops zapret2 before running, collects AVAILABLE results. Heavy operation (~5 min). "+
					"Full log saved to resources. Apply results via updateConfig NFQWS2_OPT."),
				mcp.WithString("domain",
					mcp.DefaultString(domain.DefaultDomain),
					mcp.Description("Domain to test against (default: example.com)"),
				),
				mcp.WithString("ipVersion",
					mcp.Enum(string(domain.IPv4), string(domain.IPv6), string(domain.IPv46)),
					mcp.DefaultString(string(domain.IPv4)),
					mcp.Description("IP protocol version: 4, 6 or 46 for both (default: 4)"),
				),
			),
			Handler: s.runBlockcheck,
		},
		{
			Tool: mcp.NewTool("checkPrerequisites",
				mcp.WithDescription("Check environment prerequisites for zapret2: required tools, architecture, network connectivity, "+
					"existing installation. Run this before installZapret to verify environment."),
				readOnly(),
			),
			Handler: noArgs(s.ops.CheckPrerequisites),
		},
		{
			Tool: mcp.NewTool("installZapret",
				mcp.WithDescription("Install zapret2 from scratch: clone repo, download binaries from GitHub releases, "+
					"run install_bin.sh, create base config. Skips interactive install_easy.sh. Run checkPrerequisites first. "+
					"After install, configure with updateConfig and startService."),
				mcp.WithString("version",
					mcp.DefaultString(domain.DefaultZapretVersion),
					mcp.Description("zapret2 release version (default: v0.9.4.1)"),
				),
				mcp.WithBoolean("force",
					mcp.DefaultBool(false),
					mcp.Description("Force reinstall even if /opt/zapret2 already exists"),
				),
			),
			Handler: s.installZapret,
		},
		{
			Tool: mcp.NewTool("verifyBypass",
				mcp.WithDescription("Verify network connectivity: DNS resolution, HTTP request, and nfqws2 running status for a given domain. "+
					"Use after startService or restartService to confirm zapret2 is working."),
				mcp.WithString("domain",
					mcp.DefaultString(domain.DefaultDomain),
					mcp.Description("Domain to verify bypass for (default: example.com)"),
				),
				mcp.WithNumber("timeout",
					mcp.DefaultNumber(domain.DefaultVerifyTimeout.Seconds()),
					mcp.Min(1),
					mcp.Description("HTTP request timeout in seconds (default: 10)"),
				),
				readOnly(),
			),
			Handler: s.verifyBypass,
		},
		{
			Tool: mcp.NewTool("detectSystem",
				mcp.WithDescription("Detect the target system environment: OS (id, version, pretty name), CPU architecture, "+
					"init system (systemd/procd/sysv), default WAN interface, DNS resolvers, NFQUEUE kernel module availability, "+
					"and whether running inside a container. Use this as a first step to determine which workflow "+
					"(router vs desktop) to follow."),
				readOnly(),
			),
			Handler: noArgs(s.ops.DetectSystem),
		},
		{
			Tool: mcp.NewTool("configureDns",
				mcp.WithDescription("Configure DNS resolver. Supports two methods: direct /etc/resolv.conf editing or "+
					"systemd-resolved configuration. Backs up existing config before changes. Verifies DNS resolution after "+
					"applying. Use detectSystem first to determine which method is appropriate."),
				mcp.WithString("resolver",
					mcp.Required(),
					mcp.Enum("1.1.1.1", "8.8.8.8", "9.9.9.9", domain.CustomResolver),
					mcp.Description("DNS resolver to use (or 'custom' with customResolver)"),
				),
				mcp.WithString("customResolver",
					mcp.Description("Custom DNS resolver IP (required when resolver='custom')"),
				),
				mcp.WithString("method",
					mcp.Required(),
					mcp.Enum(string(domain.DNSResolvConf), string(domain.DNSSystemdResolved)),
					mcp.Description("Configuration method: 'resolv.conf' for direct editing, 'systemd-resolved' for systemd systems"),
				),
			),
			Handler: s.configureDNS,
		},
		{
			Tool: mcp.NewTool("createSystemdService",
				mcp.WithDescription("Create a systemd service unit for zapret2 on Linux desktop systems. "+
					"Generates /etc/systemd/system/zapret2.service, runs daemon-reload, and optionally enables the service "+
					"for autostart. Requires systemd: use detectSystem first to verify."),
				mcp.WithBoolean("enable",
					mcp.DefaultBool(true),
					mcp.Description("Enable service for autostart (default: true)"),
				),
			),
			Handler: s.createSystemdService,
		},
		{
			Tool: mcp.NewTool("removeZapret2",
				mcp.WithDescription("Completely remove zapret2 installation: stop service, remove firewall rules, "+
					"disable and delete systemd unit, kill nfqws2 process, delete /opt/zapret2. "+
					"Reverses installZapret + createSystemdService + startService. DNS changes are NOT reverted."),
				mcp.WithBoolean("force",
					mcp.DefaultBool(false),
					mcp.Description("Skip confirmation check and remove even if service is still running"),
				),
			),
			Handler: s.removeZapret,
		},
	}
}

// readOnly marks a tool that only inspects the target.
func readOnly() mcp.ToolOption {
	return func(t *mcp.Tool) {
		t.Annotations.ReadOnlyHint = mcp.ToBoolPtr(true)
		t.Annotations.DestructiveHint = mcp.ToBoolPtr(false)
	}
}

func toolResult(res domain.OperationResult) *mcp.CallToolResult {
	if res.IsError {
		return mcp.NewToolResultError(res.Text)
	}
	return mcp.NewToolResultText(res.Text)
}

func noArgs(op func(context.Context) domain.OperationResult) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toolResult(op(ctx)), nil
	}
}

func (s *Server) getConfig(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.ops.GetConfig(ctx, req.GetString("key", ""))), nil
}

func (s *Server) updateConfig(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("Error: " + err.Error()), nil
	}
	value, err := req.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("Error: " + err.Error()), nil
	}
	return toolResult(s.ops.UpdateConfig(ctx, key, value)), nil
}

func (s *Server) runBlockcheck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.ops.RunBlockcheck(ctx, domain.BlockcheckRequest{
		Domain:    req.GetString("domain", domain.DefaultDomain),
		IPVersion: domain.IPVersion(req.GetString("ipVersion", string(domain.IPv4))),
	})), nil
}

func (s *Server) installZapret(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.ops.InstallZapret(ctx, domain.InstallRequest{
		Version: req.GetString("version", domain.DefaultZapretVersion),
		Force:   req.GetBool("force", false),
	})), nil
}

func (s *Server) verifyBypass(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seconds := req.GetFloat("timeout", domain.DefaultVerifyTimeout.Seconds())
	return toolResult(s.ops.VerifyBypass(ctx, domain.VerifyRequest{
		Domain:  req.GetString("domain", domain.DefaultDomain),
		Timeout: time.Duration(seconds * float64(time.Second)),
	})), nil
}

func (s *Server) configureDNS(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.ops.ConfigureDNS(ctx, domain.DNSRequest{
		Resolver:       req.GetString("resolver", ""),
		CustomResolver: req.GetString("customResolver", ""),
		Method:         domain.DNSMethod(req.GetString("method", "")),
	})), nil
}

func (s *Server) createSystemdService(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.ops.CreateSystemdService(ctx, req.GetBool("enable", true))), nil
}

func (s *Server) removeZapret(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.ops.RemoveZapret(ctx, req.GetBool("force", false))), nil
}
