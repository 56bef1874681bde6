package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/seu-repo/dreamweaver/pkg/config"
)

// InitTracer installs a Jaeger-backed tracer provider. When tracing is
// disabled the global no-op provider stays in place and the returned shutdown
// func does nothing.
func InitTracer(cfg config.OpenTelemetryConfig, version string) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(
		jaeger.WithEndpoint(cfg.Jaeger.Endpoint),
	))
	if err != nil {
		return nil, err
	}

	sampler := sdktrace.AlwaysSample()
	if cfg.Jaeger.SamplerParam > 0 && cfg.Jaeger.SamplerParam < 1 {
		sampler = sdktrace.TraceIDRatioBased(cfg.Jaeger.SamplerParam)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", version),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
	)

	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
