// Package otel configures OpenTelemetry tracing for the tablet server.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	endpointEnv = "TABLETD_OTEL_ENDPOINT"
	enabledEnv  = "TABLETD_OTEL_ENABLED"
)

func noopShutdown(context.Context) error { return nil }

// exportEndpoint returns the configured OTLP endpoint, or empty when
// tracing is disabled or unconfigured.
func exportEndpoint() string {
	if strings.EqualFold(os.Getenv(enabledEnv), "false") {
		return ""
	}
	return os.Getenv(endpointEnv)
}

// Setup initialises tracing for the given service. Tracing is opt-in: with
// no TABLETD_OTEL_ENDPOINT, or with TABLETD_OTEL_ENABLED set to "false",
// Setup registers nothing and returns a no-op shutdown function.
//
// The returned shutdown flushes pending spans; callers should defer it.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	endpoint := exportEndpoint()
	if endpoint == "" {
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noopShutdown, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noopShutdown, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return provider.Shutdown, nil
}
