package infrastructure

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// ServiceName identifies the pipeline in trace output
	ServiceName    = "i94-traffic-analysis"
	ServiceVersion = "1.0.0"
	// TracerName is the instrumentation scope for pipeline stages
	TracerName = "i94cli"
)

// TracingProviders holds the tracer provider and a file handle for the
// trace output, so a batch run can flush everything on exit.
type TracingProviders struct {
	TracerProvider *sdktrace.TracerProvider
	Tracer         trace.Tracer
	traceFile      *os.File
}

// InitializeTracing sets up a tracer provider that writes spans to the
// given file. A run-to-completion process has no collector to push to,
// so the stdout exporter pointed at a file is the whole story.
func InitializeTracing(traceFilePath string) (*TracingProviders, error) {
	file, err := os.Create(traceFilePath)
	if err != nil {
		return nil, fmt.Errorf("create trace file: %w", err)
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(file),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("create stdout trace exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return &TracingProviders{
		TracerProvider: tp,
		Tracer:         tp.Tracer(TracerName),
		traceFile:      file,
	}, nil
}

// Shutdown flushes pending spans and closes the trace file
func (p *TracingProviders) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	err := p.TracerProvider.Shutdown(ctx)
	if p.traceFile != nil {
		if cerr := p.traceFile.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
