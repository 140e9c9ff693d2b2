// Package telemetry records operational events emitted by the tablet
// server. Events are persisted through the storage layer so operators can
// inspect recent server activity without external tooling.
package telemetry

import (
	"context"
	"time"

	"github.com/tabletdb/tabletd/internal/storage"
)

// Severity describes the telemetry severity level.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// Emitter records operational telemetry events. A nil emitter or an emitter
// without a store silently drops events, so callers never need a guard.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
}

// NewEmitter creates an emitter writing through store.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records one event, stamping the current time when the event has no
// timestamp of its own.
func (e *Emitter) Emit(ctx context.Context, evt storage.TelemetryEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		now := time.Now
		if e.clock != nil {
			now = e.clock
		}
		evt.Timestamp = now().UTC()
	}
	return e.store.AppendTelemetryEvent(ctx, evt)
}
