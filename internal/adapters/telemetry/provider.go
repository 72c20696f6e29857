// Package telemetry wires OpenTelemetry tracing around command execution and tool calls.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/zapret/internal/core/ports"
)

// InstrumentationName names the tracer used throughout the server.
const InstrumentationName = "go.trai.ch/zapret"

// Provider owns the tracer. Disabled providers hand out the global no-op tracer.
type Provider struct {
	enabled bool
	sdk     *sdktrace.TracerProvider
	tracer  trace.Tracer
}

// NewProvider creates a Provider. When enabled, finished spans are logged
// through logger; opts add further SDK options such as extra span processors.
func NewProvider(enabled bool, logger ports.Logger, opts ...sdktrace.TracerProviderOption) *Provider {
	if !enabled {
		return &Provider{tracer: otel.Tracer(InstrumentationName)}
	}

	opts = append([]sdktrace.TracerProviderOption{sdktrace.WithSpanProcessor(NewLogBridge(logger))}, opts...)
	sdk := sdktrace.NewTracerProvider(opts...)
	return &Provider{
		enabled: true,
		sdk:     sdk,
		tracer:  sdk.Tracer(InstrumentationName),
	}
}

// Enabled reports whether spans are recorded.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Tracer returns the tracer for new spans.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Shutdown flushes and stops the SDK provider. It is a no-op when disabled.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}
