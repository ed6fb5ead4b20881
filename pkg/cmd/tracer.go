package cmd

import (
	"context"
	"fmt"

	"github.com/flowdeck/flowdeck/pkg/otelhelper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// NewTracer returns an OTLP-exporting tracer when tracing is enabled, and
// the global (no-op by default) tracer otherwise.
//
// nolint:ireturn // Returning interface is intentional for OpenTelemetry tracing
func NewTracer(ctx context.Context, serviceName string, enabled bool) trace.Tracer {
	if !enabled {
		return otel.Tracer(serviceName)
	}

	tracer, err := otelhelper.NewTracer(ctx, serviceName)
	if err != nil {
		panic(fmt.Errorf("failed to initialize tracer: %w", err))
	}

	return tracer
}
