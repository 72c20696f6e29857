package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
)

var _ ports.Executor = (*TracedExecutor)(nil)

// TracedExecutor wraps an executor with one span per command.
type TracedExecutor struct {
	inner  ports.Executor
	tracer trace.Tracer
}

// NewTracedExecutor decorates inner. The label is passed through unchanged.
func NewTracedExecutor(inner ports.Executor, tracer trace.Tracer) *TracedExecutor {
	return &TracedExecutor{inner: inner, tracer: tracer}
}

// Label implements ports.Executor.
func (e *TracedExecutor) Label() string {
	return e.inner.Label()
}

// Execute implements ports.Executor.
func (e *TracedExecutor) Execute(ctx context.Context, command string, timeout time.Duration) (domain.ExecResult, error) {
	ctx, span := e.tracer.Start(ctx, "executor.execute", trace.WithAttributes(
		attribute.String("executor.label", e.inner.Label()),
		attribute.Int64("exec.timeout_ms", timeout.Milliseconds()),
	))
	defer span.End()

	res, err := e.inner.Execute(ctx, command, timeout)
	if err != nil {
		if execErr, ok := domain.AsExecError(err); ok {
			span.SetAttributes(
				attribute.String("exec.error_kind", execErr.Kind.String()),
				attribute.Int("exec.stdout_bytes", len(execErr.Stdout)),
				attribute.Int("exec.stderr_bytes", len(execErr.Stderr)),
			)
			if execErr.Kind == domain.ExecExit {
				span.SetAttributes(attribute.Int("exec.exit_code", execErr.ExitCode))
			}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}

	span.SetAttributes(
		attribute.Int("exec.stdout_bytes", len(res.Stdout)),
		attribute.Int("exec.stderr_bytes", len(res.Stderr)),
	)
	return res, nil
}
