package queryv1

import (
	"context"
	"io"

	"google.golang.org/grpc"
)

// QueryClient is the client contract for queryservice.Query.
type QueryClient interface {
	GetSessionId(ctx context.Context, in *GetSessionIdRequest, opts ...grpc.CallOption) (*GetSessionIdResponse, error)
	Execute(ctx context.Context, in *ExecuteRequest, opts ...grpc.CallOption) (*ExecuteResponse, error)
	ExecuteBatch(ctx context.Context, in *ExecuteBatchRequest, opts ...grpc.CallOption) (*ExecuteBatchResponse, error)
	StreamExecute(ctx context.Context, in *StreamExecuteRequest, opts ...grpc.CallOption) (Query_StreamExecuteClient, error)
	Begin(ctx context.Context, in *BeginRequest, opts ...grpc.CallOption) (*BeginResponse, error)
	Commit(ctx context.Context, in *CommitRequest, opts ...grpc.CallOption) (*CommitResponse, error)
	Rollback(ctx context.Context, in *RollbackRequest, opts ...grpc.CallOption) (*RollbackResponse, error)
	BeginExecute(ctx context.Context, in *BeginExecuteRequest, opts ...grpc.CallOption) (*BeginExecuteResponse, error)
	BeginExecuteBatch(ctx context.Context, in *BeginExecuteBatchRequest, opts ...grpc.CallOption) (*BeginExecuteBatchResponse, error)
	SplitQuery(ctx context.Context, in *SplitQueryRequest, opts ...grpc.CallOption) (*SplitQueryResponse, error)
	StreamHealth(ctx context.Context, in *StreamHealthRequest, opts ...grpc.CallOption) (Query_StreamHealthClient, error)
}

type queryClient struct {
	cc grpc.ClientConnInterface
}

// NewQueryClient creates a queryservice.Query client over an established
// connection. The connection must negotiate the cbor content subtype; see
// internal/platform/grpc for dial options that do so.
func NewQueryClient(cc grpc.ClientConnInterface) QueryClient {
	return &queryClient{cc: cc}
}

func (c *queryClient) GetSessionId(ctx context.Context, in *GetSessionIdRequest, opts ...grpc.CallOption) (*GetSessionIdResponse, error) {
	out := new(GetSessionIdResponse)
	if err := c.cc.Invoke(ctx, Query_GetSessionId_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryClient) Execute(ctx context.Context, in *ExecuteRequest, opts ...grpc.CallOption) (*ExecuteResponse, error) {
	out := new(ExecuteResponse)
	if err := c.cc.Invoke(ctx, Query_Execute_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryClient) ExecuteBatch(ctx context.Context, in *ExecuteBatchRequest, opts ...grpc.CallOption) (*ExecuteBatchResponse, error) {
	out := new(ExecuteBatchResponse)
	if err := c.cc.Invoke(ctx, Query_ExecuteBatch_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryClient) Begin(ctx context.Context, in *BeginRequest, opts ...grpc.CallOption) (*BeginResponse, error) {
	out := new(BeginResponse)
	if err := c.cc.Invoke(ctx, Query_Begin_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryClient) Commit(ctx context.Context, in *CommitRequest, opts ...grpc.CallOption) (*CommitResponse, error) {
	out := new(CommitResponse)
	if err := c.cc.Invoke(ctx, Query_Commit_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryClient) Rollback(ctx context.Context, in *RollbackRequest, opts ...grpc.CallOption) (*RollbackResponse, error) {
	out := new(RollbackResponse)
	if err := c.cc.Invoke(ctx, Query_Rollback_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryClient) BeginExecute(ctx context.Context, in *BeginExecuteRequest, opts ...grpc.CallOption) (*BeginExecuteResponse, error) {
	out := new(BeginExecuteResponse)
	if err := c.cc.Invoke(ctx, Query_BeginExecute_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryClient) BeginExecuteBatch(ctx context.Context, in *BeginExecuteBatchRequest, opts ...grpc.CallOption) (*BeginExecuteBatchResponse, error) {
	out := new(BeginExecuteBatchResponse)
	if err := c.cc.Invoke(ctx, Query_BeginExecuteBatch_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryClient) SplitQuery(ctx context.Context, in *SplitQueryRequest, opts ...grpc.CallOption) (*SplitQueryResponse, error) {
	out := new(SplitQueryResponse)
	if err := c.cc.Invoke(ctx, Query_SplitQuery_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Query_StreamExecuteClient is the client side of a StreamExecute call.
type Query_StreamExecuteClient interface {
	Recv() (*StreamExecuteResponse, error)
	grpc.ClientStream
}

type queryStreamExecuteClient struct {
	grpc.ClientStream
}

func (c *queryStreamExecuteClient) Recv() (*StreamExecuteResponse, error) {
	m := new(StreamExecuteResponse)
	if err := c.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *queryClient) StreamExecute(ctx context.Context, in *StreamExecuteRequest, opts ...grpc.CallOption) (Query_StreamExecuteClient, error) {
	stream, err := c.cc.NewStream(ctx, &Query_ServiceDesc.Streams[0], Query_StreamExecute_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &queryStreamExecuteClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// Query_StreamHealthClient is the client side of a StreamHealth call.
type Query_StreamHealthClient interface {
	Recv() (*StreamHealthResponse, error)
	grpc.ClientStream
}

type queryStreamHealthClient struct {
	grpc.ClientStream
}

func (c *queryStreamHealthClient) Recv() (*StreamHealthResponse, error) {
	m := new(StreamHealthResponse)
	if err := c.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *queryClient) StreamHealth(ctx context.Context, in *StreamHealthRequest, opts ...grpc.CallOption) (Query_StreamHealthClient, error) {
	stream, err := c.cc.NewStream(ctx, &Query_ServiceDesc.Streams[1], Query_StreamHealth_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &queryStreamHealthClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// DrainStream reads a StreamExecute stream to completion, appending row
// batches onto the first field-bearing result.
func DrainStream(stream Query_StreamExecuteClient) (*QueryResult, error) {
	result := &QueryResult{}
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return nil, err
		}
		if resp.Result == nil {
			continue
		}
		if len(resp.Result.Fields) > 0 {
			result.Fields = resp.Result.Fields
		}
		result.Rows = append(result.Rows, resp.Result.Rows...)
	}
}

var _ QueryClient = (*queryClient)(nil)
