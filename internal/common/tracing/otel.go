// Package tracing installs the OpenTelemetry tracer provider.
//
// Spans are exported only when OTEL_EXPORTER_OTLP_ENDPOINT is set; otherwise
// the global no-op provider stays in place.
package tracing

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// DBTracer is the tracer name used by the repositories.
const DBTracer = "side-planner-db"

var (
	mu          sync.Mutex
	sdkProvider *sdktrace.TracerProvider
)

// Init installs an OTLP/HTTP exporter when OTEL_EXPORTER_OTLP_ENDPOINT is
// set. It reports whether export is enabled.
func Init(ctx context.Context, serviceName string) (bool, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return false, nil
	}

	mu.Lock()
	defer mu.Unlock()
	if sdkProvider != nil {
		return true, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpointHost(endpoint))}
	if !strings.HasPrefix(endpoint, "https://") {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return false, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		res = resource.Default()
	}

	sdkProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(sdkProvider)
	return true, nil
}

func endpointHost(endpoint string) string {
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(endpoint, prefix) {
			return strings.TrimSuffix(endpoint[len(prefix):], "/")
		}
	}
	return endpoint
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Shutdown flushes pending spans.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()
	if sdkProvider == nil {
		return nil
	}
	err := sdkProvider.Shutdown(ctx)
	sdkProvider = nil
	return err
}
