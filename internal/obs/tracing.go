package obs

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ServiceName identifies this service in traces.
const ServiceName = "item-registry-service"

// TracingConfig selects the span exporter.
type TracingConfig struct {
	// Exporter is one of "none", "stdout", "otlp".
	Exporter     string
	OTLPEndpoint string
	SampleRate   float64
}

// Tracing owns the tracer provider for the process.
type Tracing struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// InitTracing builds the provider and installs it globally. Exporter "none"
// (or empty) yields a no-op tracer.
func InitTracing(ctx context.Context, cfg TracingConfig) (*Tracing, error) {
	var exporter sdktrace.SpanExporter
	var err error
	switch cfg.Exporter {
	case "none", "":
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return &Tracing{tracer: tp.Tracer(ServiceName)}, nil
	case "stdout":
		exporter, err = stdouttrace.New()
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
	case "otlp":
		endpoint := cfg.OTLPEndpoint
		if endpoint == "" {
			endpoint = "localhost:4317"
		}
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}

	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 1.0
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)
	return &Tracing{provider: provider, tracer: provider.Tracer(ServiceName)}, nil
}

// Tracer returns the tracer for this service.
func (t *Tracing) Tracer() trace.Tracer { return t.tracer }

// Enabled reports whether spans are exported.
func (t *Tracing) Enabled() bool { return t.provider != nil }

// Shutdown flushes pending spans.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t.provider != nil {
		return t.provider.Shutdown(ctx)
	}
	return nil
}
