// Package queryv1 declares the queryservice.Query wire contract: the
// request/response messages, the server and client interfaces, and the
// grpc.ServiceDesc used to register a tablet query service.
//
// The contract is maintained by hand rather than generated. Messages are
// plain structs carried over gRPC with the CBOR codec registered by
// internal/platform/grpc; method names, type identifiers, and streaming
// cardinality are fixed and must not change, since deployed clients route
// on them.
package queryv1
