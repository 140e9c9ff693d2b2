package queryv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "queryservice.Query"

const (
	Query_GetSessionId_FullMethodName      = "/queryservice.Query/GetSessionId"
	Query_Execute_FullMethodName           = "/queryservice.Query/Execute"
	Query_ExecuteBatch_FullMethodName      = "/queryservice.Query/ExecuteBatch"
	Query_StreamExecute_FullMethodName     = "/queryservice.Query/StreamExecute"
	Query_Begin_FullMethodName             = "/queryservice.Query/Begin"
	Query_Commit_FullMethodName            = "/queryservice.Query/Commit"
	Query_Rollback_FullMethodName          = "/queryservice.Query/Rollback"
	Query_BeginExecute_FullMethodName      = "/queryservice.Query/BeginExecute"
	Query_BeginExecuteBatch_FullMethodName = "/queryservice.Query/BeginExecuteBatch"
	Query_SplitQuery_FullMethodName        = "/queryservice.Query/SplitQuery"
	Query_StreamHealth_FullMethodName      = "/queryservice.Query/StreamHealth"
)

// QueryServer is the server contract for queryservice.Query. A concrete
// service embeds UnimplementedQueryServer so that partially implemented
// servers fail calls with Unimplemented instead of returning defaults.
type QueryServer interface {
	GetSessionId(context.Context, *GetSessionIdRequest) (*GetSessionIdResponse, error)
	Execute(context.Context, *ExecuteRequest) (*ExecuteResponse, error)
	ExecuteBatch(context.Context, *ExecuteBatchRequest) (*ExecuteBatchResponse, error)
	StreamExecute(*StreamExecuteRequest, Query_StreamExecuteServer) error
	Begin(context.Context, *BeginRequest) (*BeginResponse, error)
	Commit(context.Context, *CommitRequest) (*CommitResponse, error)
	Rollback(context.Context, *RollbackRequest) (*RollbackResponse, error)
	BeginExecute(context.Context, *BeginExecuteRequest) (*BeginExecuteResponse, error)
	BeginExecuteBatch(context.Context, *BeginExecuteBatchRequest) (*BeginExecuteBatchResponse, error)
	SplitQuery(context.Context, *SplitQueryRequest) (*SplitQueryResponse, error)
	StreamHealth(*StreamHealthRequest, Query_StreamHealthServer) error
}

// UnimplementedQueryServer fails every method with codes.Unimplemented.
type UnimplementedQueryServer struct{}

func (UnimplementedQueryServer) GetSessionId(context.Context, *GetSessionIdRequest) (*GetSessionIdResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSessionId not implemented")
}

func (UnimplementedQueryServer) Execute(context.Context, *ExecuteRequest) (*ExecuteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Execute not implemented")
}

func (UnimplementedQueryServer) ExecuteBatch(context.Context, *ExecuteBatchRequest) (*ExecuteBatchResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ExecuteBatch not implemented")
}

func (UnimplementedQueryServer) StreamExecute(*StreamExecuteRequest, Query_StreamExecuteServer) error {
	return status.Error(codes.Unimplemented, "method StreamExecute not implemented")
}

func (UnimplementedQueryServer) Begin(context.Context, *BeginRequest) (*BeginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Begin not implemented")
}

func (UnimplementedQueryServer) Commit(context.Context, *CommitRequest) (*CommitResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Commit not implemented")
}

func (UnimplementedQueryServer) Rollback(context.Context, *RollbackRequest) (*RollbackResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Rollback not implemented")
}

func (UnimplementedQueryServer) BeginExecute(context.Context, *BeginExecuteRequest) (*BeginExecuteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method BeginExecute not implemented")
}

func (UnimplementedQueryServer) BeginExecuteBatch(context.Context, *BeginExecuteBatchRequest) (*BeginExecuteBatchResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method BeginExecuteBatch not implemented")
}

func (UnimplementedQueryServer) SplitQuery(context.Context, *SplitQueryRequest) (*SplitQueryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SplitQuery not implemented")
}

func (UnimplementedQueryServer) StreamHealth(*StreamHealthRequest, Query_StreamHealthServer) error {
	return status.Error(codes.Unimplemented, "method StreamHealth not implemented")
}

// Query_StreamExecuteServer is the server side of a StreamExecute call.
type Query_StreamExecuteServer interface {
	Send(*StreamExecuteResponse) error
	grpc.ServerStream
}

type queryStreamExecuteServer struct {
	grpc.ServerStream
}

func (s *queryStreamExecuteServer) Send(m *StreamExecuteResponse) error {
	return s.ServerStream.SendMsg(m)
}

// Query_StreamHealthServer is the server side of a StreamHealth call.
type Query_StreamHealthServer interface {
	Send(*StreamHealthResponse) error
	grpc.ServerStream
}

type queryStreamHealthServer struct {
	grpc.ServerStream
}

func (s *queryStreamHealthServer) Send(m *StreamHealthResponse) error {
	return s.ServerStream.SendMsg(m)
}

// RegisterQueryServer registers srv with the gRPC registrar under the
// queryservice.Query service descriptor.
func RegisterQueryServer(s grpc.ServiceRegistrar, srv QueryServer) {
	s.RegisterService(&Query_ServiceDesc, srv)
}

func _Query_GetSessionId_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetSessionIdRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServer).GetSessionId(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Query_GetSessionId_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(QueryServer).GetSessionId(ctx, req.(*GetSessionIdRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Query_Execute_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ExecuteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Query_Execute_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(QueryServer).Execute(ctx, req.(*ExecuteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Query_ExecuteBatch_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ExecuteBatchRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServer).ExecuteBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Query_ExecuteBatch_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(QueryServer).ExecuteBatch(ctx, req.(*ExecuteBatchRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Query_StreamExecute_Handler(srv any, stream grpc.ServerStream) error {
	in := new(StreamExecuteRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(QueryServer).StreamExecute(in, &queryStreamExecuteServer{stream})
}

func _Query_Begin_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(BeginRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServer).Begin(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Query_Begin_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(QueryServer).Begin(ctx, req.(*BeginRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Query_Commit_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CommitRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServer).Commit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Query_Commit_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(QueryServer).Commit(ctx, req.(*CommitRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Query_Rollback_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RollbackRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServer).Rollback(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Query_Rollback_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(QueryServer).Rollback(ctx, req.(*RollbackRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Query_BeginExecute_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(BeginExecuteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServer).BeginExecute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Query_BeginExecute_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(QueryServer).BeginExecute(ctx, req.(*BeginExecuteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Query_BeginExecuteBatch_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(BeginExecuteBatchRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServer).BeginExecuteBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Query_BeginExecuteBatch_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(QueryServer).BeginExecuteBatch(ctx, req.(*BeginExecuteBatchRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Query_SplitQuery_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SplitQueryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServer).SplitQuery(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Query_SplitQuery_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(QueryServer).SplitQuery(ctx, req.(*SplitQueryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Query_StreamHealth_Handler(srv any, stream grpc.ServerStream) error {
	in := new(StreamHealthRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(QueryServer).StreamHealth(in, &queryStreamHealthServer{stream})
}

// Query_ServiceDesc maps method names to handlers and declares the two
// server-streamed methods. Clients and servers must agree on this table.
var Query_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*QueryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetSessionId",
			Handler:    _Query_GetSessionId_Handler,
		},
		{
			MethodName: "Execute",
			Handler:    _Query_Execute_Handler,
		},
		{
			MethodName: "ExecuteBatch",
			Handler:    _Query_ExecuteBatch_Handler,
		},
		{
			MethodName: "Begin",
			Handler:    _Query_Begin_Handler,
		},
		{
			MethodName: "Commit",
			Handler:    _Query_Commit_Handler,
		},
		{
			MethodName: "Rollback",
			Handler:    _Query_Rollback_Handler,
		},
		{
			MethodName: "BeginExecute",
			Handler:    _Query_BeginExecute_Handler,
		},
		{
			MethodName: "BeginExecuteBatch",
			Handler:    _Query_BeginExecuteBatch_Handler,
		},
		{
			MethodName: "SplitQuery",
			Handler:    _Query_SplitQuery_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamExecute",
			Handler:       _Query_StreamExecute_Handler,
			ServerStreams: true,
		},
		{
			StreamName:    "StreamHealth",
			Handler:       _Query_StreamHealth_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "queryservice.proto",
}
