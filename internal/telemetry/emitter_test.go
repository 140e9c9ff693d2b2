package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/tabletdb/tabletd/internal/storage"
)

type fakeTelemetryStore struct {
	last  storage.TelemetryEvent
	count int
}

func (s *fakeTelemetryStore) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	s.last = evt
	s.count++
	return nil
}

func TestEmitterNoopWhenNil(t *testing.T) {
	var emitter *Emitter
	if err := emitter.Emit(context.Background(), storage.TelemetryEvent{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestEmitterNoopWhenStoreNil(t *testing.T) {
	emitter := &Emitter{}
	if err := emitter.Emit(context.Background(), storage.TelemetryEvent{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestEmitterDefaultsTimestamp(t *testing.T) {
	store := &fakeTelemetryStore{}
	emitter := NewEmitter(store)
	emitter.clock = func() time.Time {
		return time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	}

	if err := emitter.Emit(context.Background(), storage.TelemetryEvent{EventName: "evt"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if store.count != 1 {
		t.Fatalf("expected 1 append, got %d", store.count)
	}
	if !store.last.Timestamp.Equal(time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected clock timestamp, got %v", store.last.Timestamp)
	}
}

func TestEmitterPreservesExplicitTimestamp(t *testing.T) {
	store := &fakeTelemetryStore{}
	emitter := NewEmitter(store)

	stamp := time.Date(2026, 1, 15, 12, 30, 0, 0, time.UTC)
	if err := emitter.Emit(context.Background(), storage.TelemetryEvent{EventName: "evt", Timestamp: stamp}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if !store.last.Timestamp.Equal(stamp) {
		t.Fatalf("expected %v, got %v", stamp, store.last.Timestamp)
	}
}
