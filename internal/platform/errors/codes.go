// Package errors provides structured error handling for the tablet server.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Session errors
	CodeSessionRequired    Code = "SESSION_REQUIRED"
	CodeSessionInvalid     Code = "SESSION_INVALID"
	CodeSessionWrongTarget Code = "SESSION_WRONG_TARGET"
	CodeTargetRequired     Code = "TARGET_REQUIRED"

	// Transaction errors
	CodeTxNotFound Code = "TX_NOT_FOUND"
	CodeTxPoolFull Code = "TX_POOL_FULL"
	CodeTxExpired  Code = "TX_EXPIRED"

	// Query errors
	CodeQueryEmpty     Code = "QUERY_EMPTY"
	CodeQueryFailed    Code = "QUERY_FAILED"
	CodeQueryThrottled Code = "QUERY_THROTTLED"

	// Split query errors
	CodeSplitColumnRequired Code = "SPLIT_COLUMN_REQUIRED"
	CodeSplitColumnInvalid  Code = "SPLIT_COLUMN_INVALID"
	CodeSplitCountInvalid   Code = "SPLIT_COUNT_INVALID"
	CodeSplitNotSelect      Code = "SPLIT_NOT_SELECT"

	// Serving state errors
	CodeNotServing Code = "NOT_SERVING"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeSessionRequired,
		CodeTargetRequired,
		CodeQueryEmpty,
		CodeSplitColumnRequired,
		CodeSplitColumnInvalid,
		CodeSplitCountInvalid,
		CodeSplitNotSelect:
		return codes.InvalidArgument

	// PermissionDenied - session does not belong to this tablet
	case CodeSessionInvalid,
		CodeSessionWrongTarget:
		return codes.PermissionDenied

	// FailedPrecondition - state doesn't allow operation
	case CodeNotServing:
		return codes.FailedPrecondition

	// ResourceExhausted - pool or rate limits hit
	case CodeTxPoolFull,
		CodeQueryThrottled:
		return codes.ResourceExhausted

	// Aborted - transaction no longer usable
	case CodeTxNotFound,
		CodeTxExpired:
		return codes.Aborted

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
