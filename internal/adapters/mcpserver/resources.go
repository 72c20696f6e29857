package mcpserver

import (
	"context"
	"errors"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zerr"
)

const logMIMEType = "text/plain"

func logTemplate() mcp.ResourceTemplate {
	return mcp.NewResourceTemplate(domain.LogURITemplate, "zapret2-logs",
		mcp.WithTemplateDescription("Saved zapret2 operation logs: blockcheck transcripts, service actions and config snapshots"),
		mcp.WithTemplateMIMEType(logMIMEType),
	)
}

func (s *Server) readLog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	category, ts, err := domain.ParseLogURI(uri)
	if err != nil {
		return nil, operatorError(err)
	}
	content, err := s.ops.ReadLog(category, ts)
	if err != nil {
		return nil, operatorError(err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: uri, MIMEType: logMIMEType, Text: content},
	}, nil
}

// RefreshResources republishes one concrete resource per stored log.
// A refresh that would not change the listing is skipped, so clients only
// get resources/list_changed when something changed.
func (s *Server) RefreshResources() error {
	entries, err := s.ops.ListLogs("")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sum := fingerprint(entries)
	if s.listed && sum == s.fingerprint {
		return nil
	}
	s.fingerprint = sum
	s.listed = true

	resources := make([]server.ServerResource, 0, len(entries))
	for _, e := range entries {
		resources = append(resources, server.ServerResource{
			Resource: mcp.NewResource(e.URI, e.Name(),
				mcp.WithResourceDescription(e.MetaString()),
				mcp.WithMIMEType(logMIMEType),
			),
			Handler: s.readLog,
		})
	}
	s.mcp.SetResources(resources...)
	return nil
}

// OnLogsChanged is a LogStore.OnSave callback.
func (s *Server) OnLogsChanged() {
	if err := s.RefreshResources(); err != nil {
		s.logger.Error(zerr.Wrap(err, "failed to refresh log resources"))
	}
}

func fingerprint(entries []domain.LogEntry) uint64 {
	h := xxhash.New()
	for _, e := range entries {
		_, _ = h.WriteString(e.URI)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(strconv.FormatInt(e.Size, 10))
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(e.MetaString())
		_, _ = h.WriteString("\n")
	}
	return h.Sum64()
}

type messager interface {
	Message() string
}

// operatorError reduces err to its outermost message, which is the text
// shown to the client (for example "Log not found: service/<ts>").
func operatorError(err error) error {
	var m messager
	if errors.As(err, &m) && m.Message() != "" {
		return zerr.New(m.Message())
	}
	return err
}
