package otel_test

import (
	"context"
	"testing"

	"github.com/tabletdb/tabletd/internal/platform/otel"
)

func setupAndShutdown(t *testing.T, service string) {
	t.Helper()
	shutdown, err := otel.Setup(context.Background(), service)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupNoopWithoutEndpoint(t *testing.T) {
	t.Setenv("TABLETD_OTEL_ENDPOINT", "")
	t.Setenv("TABLETD_OTEL_ENABLED", "")
	setupAndShutdown(t, "tabletd-test")
}

func TestSetupNoopWhenDisabled(t *testing.T) {
	t.Setenv("TABLETD_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("TABLETD_OTEL_ENABLED", "false")
	setupAndShutdown(t, "tabletd-test")
}

func TestSetupRegistersProviderWithEndpoint(t *testing.T) {
	// Non-routable address; nothing is exported during the test.
	t.Setenv("TABLETD_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("TABLETD_OTEL_ENABLED", "")
	setupAndShutdown(t, "tabletd-test")
}

func TestSetupNoopShutdownIgnoresCancelledContext(t *testing.T) {
	t.Setenv("TABLETD_OTEL_ENDPOINT", "")
	t.Setenv("TABLETD_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "tabletd-test")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}
