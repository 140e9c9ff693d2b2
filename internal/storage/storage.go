// Package storage declares the persistence surfaces used by the tablet
// server. Implementations live in subpackages (sqlite).
package storage

import (
	"context"
	"database/sql"
	"time"
)

// QueryDB is the database surface the query service executes against. It is
// satisfied by *sql.DB and keeps the tablet server testable without a real
// store.
type QueryDB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// TelemetryEvent records one operational event emitted by the server.
type TelemetryEvent struct {
	EventName  string
	Severity   string
	Method     string
	SessionID  string
	Timestamp  time.Time
	Attributes map[string]any
}

// TelemetryStore persists operational telemetry events.
type TelemetryStore interface {
	AppendTelemetryEvent(ctx context.Context, evt TelemetryEvent) error
}
