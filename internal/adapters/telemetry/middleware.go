package telemetry

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ToolMiddleware runs every tool call inside a span named after the tool.
func ToolMiddleware(tracer trace.Tracer) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ctx, span := tracer.Start(ctx, "mcp.tool/"+request.Params.Name,
				trace.WithAttributes(attribute.String("mcp.tool", request.Params.Name)))
			defer span.End()

			result, err := next(ctx, request)
			switch {
			case err != nil:
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			case result != nil && result.IsError:
				span.SetAttributes(attribute.Bool("mcp.is_error", true))
				span.SetStatus(codes.Error, "tool returned an error result")
			}
			return result, err
		}
	}
}
