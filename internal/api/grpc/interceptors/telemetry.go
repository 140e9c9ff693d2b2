// Package interceptors provides gRPC server interceptors for the tablet
// server.
package interceptors

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	queryv1 "github.com/tabletdb/tabletd/api/queryv1"
	"github.com/tabletdb/tabletd/internal/storage"
	"github.com/tabletdb/tabletd/internal/telemetry"
)

// Telemetry returns a unary interceptor that records one telemetry event
// per query method call. The session id is taken from the request when the
// method carries one.
func Telemetry(emitter *telemetry.Emitter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)

		st, _ := status.FromError(err)
		severity := telemetry.SeverityInfo
		if err != nil {
			severity = telemetry.SeverityError
		}

		span := trace.SpanFromContext(ctx)
		span.SetAttributes(
			attribute.String("rpc.grpc.status_text", st.Code().String()),
			attribute.Int64("rpc.server.duration_ms", elapsed.Milliseconds()),
		)

		evt := storage.TelemetryEvent{
			EventName: "query.rpc",
			Severity:  string(severity),
			Method:    info.FullMethod,
			SessionID: queryv1.SessionIDFromRequest(req),
			Attributes: map[string]any{
				"grpc_code":   st.Code().String(),
				"duration_ms": elapsed.Milliseconds(),
			},
		}
		if emitErr := emitter.Emit(ctx, evt); emitErr != nil {
			// Telemetry must never fail the RPC.
			log.Printf("emit telemetry event: %v", emitErr)
		}

		return resp, err
	}
}
