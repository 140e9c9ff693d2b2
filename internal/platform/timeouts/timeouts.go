// Package timeouts defines shared timeout constants used across the tablet
// server and its clients. Centralizing these values prevents drift between
// callers and makes the durations discoverable.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing a gRPC peer.
const GRPCDial = 2 * time.Second

// GRPCRequest caps the time allowed for a single unary query request.
const GRPCRequest = 2 * time.Second

// Shutdown limits how long the server waits for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
