package mcpserver

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.trai.ch/zerr"
)

//go:embed prompts/*.md
var promptFS embed.FS

var promptTemplates = template.Must(template.ParseFS(promptFS, "prompts/*.md"))

type promptSpec struct {
	name        string
	description string
	// domainArg adds the optional "domain" argument and its hint.
	domainArg   string
	hintWith    string
	hintWithout string
}

var promptSpecs = []promptSpec{
	{
		name: "setup-zapret",
		description: "Full installation pipeline: checkPrerequisites → installZapret → getConfig → " +
			"updateConfig NFQWS2_ENABLE=1 → startService → verifyBypass",
	},
	{
		name: "find-bypass-strategy",
		description: "Find working DPI bypass strategy: stopService → runBlockcheck → analyze log resource → " +
			"updateConfig NFQWS2_OPT → restartService → verifyBypass",
		domainArg:   "Target domain to test (e.g. example.com)",
		hintWith:    `Use domain "%s" for blockcheck and verification.`,
		hintWithout: "Ask the user which domain to test, or use a commonly blocked domain.",
	},
	{
		name:        "troubleshoot",
		description: "Diagnose zapret2 issues: getStatus → getConfig → checkPrerequisites → verifyBypass → analyze results",
		domainArg:   "Domain to test bypass against (e.g. example.com)",
		hintWith:    `Test bypass against domain "%s".`,
		hintWithout: "Ask the user which domain is problematic, or test against a commonly blocked domain.",
	},
	{
		name: "setup-desktop",
		description: "Full installation pipeline for Linux desktop with systemd: detectSystem → checkPrerequisites → " +
			"installZapret → configureDns → createSystemdService → updateConfig → startService → verifyBypass",
	},
	{
		name: "strategy-knowledge",
		description: "Reference guide: all DPI bypass strategy families, nfqws2 parameters, fooling options, " +
			"and protocol-specific recommendations",
	},
	{
		name:        "overview",
		description: "Quick reference: all available tools, resources, and typical workflows for zapret2-mcp",
	},
}

func (s *Server) prompts() []server.ServerPrompt {
	prompts := make([]server.ServerPrompt, 0, len(promptSpecs))
	for _, spec := range promptSpecs {
		opts := []mcp.PromptOption{mcp.WithPromptDescription(spec.description)}
		if spec.domainArg != "" {
			opts = append(opts, mcp.WithArgument("domain", mcp.ArgumentDescription(spec.domainArg)))
		}
		prompts = append(prompts, server.ServerPrompt{
			Prompt:  mcp.NewPrompt(spec.name, opts...),
			Handler: spec.handle,
		})
	}
	return prompts
}

func (p promptSpec) handle(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text, err := p.render(req.Params.Arguments["domain"])
	if err != nil {
		return nil, err
	}
	return mcp.NewGetPromptResult(p.description, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	}), nil
}

func (p promptSpec) render(domainName string) (string, error) {
	hint := p.hintWithout
	if domainName != "" && p.hintWith != "" {
		hint = fmt.Sprintf(p.hintWith, domainName)
	}

	var b strings.Builder
	if err := promptTemplates.ExecuteTemplate(&b, p.name+".md", struct{ DomainHint string }{hint}); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to render prompt"), "prompt", p.name)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
