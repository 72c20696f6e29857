// Package mcpserver exposes the zapret2 operations, stored logs and guided prompts over MCP.
package mcpserver

import (
	"context"
	_ "embed"
	"io"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
	"go.trai.ch/zerr"
)

//go:embed instructions.md
var instructions string

// Operations is the application surface the tools call into.
type Operations interface {
	GetStatus(ctx context.Context) domain.OperationResult
	StartService(ctx context.Context) domain.OperationResult
	StopService(ctx context.Context) domain.OperationResult
	RestartService(ctx context.Context) domain.OperationResult
	GetConfig(ctx context.Context, key string) domain.OperationResult
	UpdateConfig(ctx context.Context, key, value string) domain.OperationResult
	RunBlockcheck(ctx context.Context, req domain.BlockcheckRequest) domain.OperationResult
	CheckPrerequisites(ctx context.Context) domain.OperationResult
	InstallZapret(ctx context.Context, req domain.InstallRequest) domain.OperationResult
	VerifyBypass(ctx context.Context, req domain.VerifyRequest) domain.OperationResult
	DetectSystem(ctx context.Context) domain.OperationResult
	ConfigureDNS(ctx context.Context, req domain.DNSRequest) domain.OperationResult
	CreateSystemdService(ctx context.Context, enable bool) domain.OperationResult
	RemoveZapret(ctx context.Context, force bool) domain.OperationResult

	ListLogs(category domain.LogCategory) ([]domain.LogEntry, error)
	ReadLog(category domain.LogCategory, timestamp string) (string, error)
}

// Options configures the server.
type Options struct {
	// Version is reported in the initialize handshake.
	Version string
	// ToolMiddleware wraps every tool handler, outermost first.
	ToolMiddleware []server.ToolHandlerMiddleware
}

// Server is the zapret2 MCP server.
type Server struct {
	mcp    *server.MCPServer
	ops    Operations
	logger ports.Logger

	mu          sync.Mutex
	fingerprint uint64
	listed      bool
}

// New builds a server with every tool, resource and prompt registered.
func New(ops Operations, logger ports.Logger, opts Options) *Server {
	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithInstructions(instructions),
		server.WithRecovery(),
	}
	for _, mw := range opts.ToolMiddleware {
		serverOpts = append(serverOpts, server.WithToolHandlerMiddleware(mw))
	}

	s := &Server{
		mcp:    server.NewMCPServer(domain.AppName, opts.Version, serverOpts...),
		ops:    ops,
		logger: logger,
	}
	s.mcp.AddTools(s.tools()...)
	s.mcp.AddResourceTemplate(logTemplate(), s.readLog)
	s.mcp.AddPrompts(s.prompts()...)
	return s
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Serve speaks MCP over in and out until ctx is cancelled or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return zerr.Wrap(err, domain.ErrServeFailed.Error())
	}
	return nil
}
