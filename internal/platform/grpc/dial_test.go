package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func TestDialWithHealthConnects(t *testing.T) {
	fixture := newHealthFixture(t, grpc_health_v1.HealthCheckResponse_SERVING)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := DialWithHealth(ctx, nil, fixture.addr, time.Second, nil, DefaultClientDialOptions()...)
	if err != nil {
		t.Fatalf("dial with health: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("close conn: %v", err)
	}
}

func TestDialWithHealthFailsWhenNotServing(t *testing.T) {
	fixture := newHealthFixture(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	conn, err := DialWithHealth(ctx, nil, fixture.addr, time.Second, nil, DefaultClientDialOptions()...)
	if err == nil {
		_ = conn.Close()
		t.Fatal("expected error for non-serving peer")
	}

	var dialErr *DialError
	if !errors.As(err, &dialErr) {
		t.Fatalf("expected DialError, got %T", err)
	}
	if dialErr.Stage != DialStageHealth {
		t.Fatalf("expected stage %q, got %q", DialStageHealth, dialErr.Stage)
	}
}

func TestDialWithHealthBoundsHealthWaitByDialTimeout(t *testing.T) {
	fixture := newHealthFixture(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := DialWithHealth(ctx, nil, fixture.addr, 150*time.Millisecond, nil, DefaultClientDialOptions()...); err == nil {
		t.Fatal("expected error")
	}
	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Fatalf("expected dial timeout to bound the health wait, took %v", elapsed)
	}
}

func TestDialWithHealthReportsConnectStage(t *testing.T) {
	dialer := DialerFunc(func(context.Context, string, ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
		return nil, fmt.Errorf("dial failure")
	})

	_, err := DialWithHealth(context.Background(), dialer, "unused", time.Second, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var dialErr *DialError
	if !errors.As(err, &dialErr) {
		t.Fatalf("expected DialError, got %T", err)
	}
	if dialErr.Stage != DialStageConnect {
		t.Fatalf("expected stage %q, got %q", DialStageConnect, dialErr.Stage)
	}
}

func TestDialErrorMessages(t *testing.T) {
	wrapped := &DialError{Stage: DialStageConnect, Err: fmt.Errorf("boom")}
	if !strings.Contains(wrapped.Error(), "connect") || !strings.Contains(wrapped.Error(), "boom") {
		t.Fatalf("unexpected error text: %s", wrapped.Error())
	}
	if wrapped.Unwrap() == nil {
		t.Fatal("expected wrapped cause")
	}

	var nilErr *DialError
	if nilErr.Error() == "" {
		t.Fatal("expected fallback text for nil error")
	}
	if nilErr.Unwrap() != nil {
		t.Fatal("expected nil cause for nil error")
	}
}

func TestDialerFuncDelegates(t *testing.T) {
	var gotAddr string
	dialer := DialerFunc(func(ctx context.Context, addr string, _ ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
		if ctx == nil {
			t.Fatal("expected context")
		}
		gotAddr = addr
		return nil, nil
	})

	if _, err := dialer.DialContext(context.Background(), "target"); err != nil {
		t.Fatalf("dial context: %v", err)
	}
	if gotAddr != "target" {
		t.Fatalf("expected target addr, got %q", gotAddr)
	}
}
