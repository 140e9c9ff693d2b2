// Package server wires the tablet query service, its sqlite store, and the
// gRPC transport into a runnable server.
package server
