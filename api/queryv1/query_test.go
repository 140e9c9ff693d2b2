package queryv1

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestServiceDescShape(t *testing.T) {
	if Query_ServiceDesc.ServiceName != "queryservice.Query" {
		t.Fatalf("unexpected service name %q", Query_ServiceDesc.ServiceName)
	}
	if got := len(Query_ServiceDesc.Methods) + len(Query_ServiceDesc.Streams); got != 11 {
		t.Fatalf("expected 11 declared methods, got %d", got)
	}

	wantUnary := []string{
		"GetSessionId", "Execute", "ExecuteBatch", "Begin", "Commit",
		"Rollback", "BeginExecute", "BeginExecuteBatch", "SplitQuery",
	}
	if len(Query_ServiceDesc.Methods) != len(wantUnary) {
		t.Fatalf("expected %d unary methods, got %d", len(wantUnary), len(Query_ServiceDesc.Methods))
	}
	unary := map[string]bool{}
	for _, m := range Query_ServiceDesc.Methods {
		if m.Handler == nil {
			t.Fatalf("method %s has no handler", m.MethodName)
		}
		unary[m.MethodName] = true
	}
	for _, name := range wantUnary {
		if !unary[name] {
			t.Fatalf("unary method %s is not registered", name)
		}
	}

	wantStreams := []string{"StreamExecute", "StreamHealth"}
	if len(Query_ServiceDesc.Streams) != len(wantStreams) {
		t.Fatalf("expected %d streams, got %d", len(wantStreams), len(Query_ServiceDesc.Streams))
	}
	for i, name := range wantStreams {
		sd := Query_ServiceDesc.Streams[i]
		if sd.StreamName != name {
			t.Fatalf("stream %d: expected %s, got %s", i, name, sd.StreamName)
		}
		if !sd.ServerStreams {
			t.Fatalf("stream %s must be server-streamed", name)
		}
		if sd.ClientStreams {
			t.Fatalf("stream %s must not be client-streamed", name)
		}
		if sd.Handler == nil {
			t.Fatalf("stream %s has no handler", name)
		}
	}
}

// recordingServer records which method the dispatch table invoked and with
// which request type.
type recordingServer struct {
	UnimplementedQueryServer
	called  string
	reqType reflect.Type
}

func (r *recordingServer) record(method string, req any) {
	r.called = method
	r.reqType = reflect.TypeOf(req)
}

func (r *recordingServer) GetSessionId(_ context.Context, in *GetSessionIdRequest) (*GetSessionIdResponse, error) {
	r.record("GetSessionId", in)
	return &GetSessionIdResponse{}, nil
}

func (r *recordingServer) Execute(_ context.Context, in *ExecuteRequest) (*ExecuteResponse, error) {
	r.record("Execute", in)
	return &ExecuteResponse{}, nil
}

func (r *recordingServer) ExecuteBatch(_ context.Context, in *ExecuteBatchRequest) (*ExecuteBatchResponse, error) {
	r.record("ExecuteBatch", in)
	return &ExecuteBatchResponse{}, nil
}

func (r *recordingServer) Begin(_ context.Context, in *BeginRequest) (*BeginResponse, error) {
	r.record("Begin", in)
	return &BeginResponse{}, nil
}

func (r *recordingServer) Commit(_ context.Context, in *CommitRequest) (*CommitResponse, error) {
	r.record("Commit", in)
	return &CommitResponse{}, nil
}

func (r *recordingServer) Rollback(_ context.Context, in *RollbackRequest) (*RollbackResponse, error) {
	r.record("Rollback", in)
	return &RollbackResponse{}, nil
}

func (r *recordingServer) BeginExecute(_ context.Context, in *BeginExecuteRequest) (*BeginExecuteResponse, error) {
	r.record("BeginExecute", in)
	return &BeginExecuteResponse{}, nil
}

func (r *recordingServer) BeginExecuteBatch(_ context.Context, in *BeginExecuteBatchRequest) (*BeginExecuteBatchResponse, error) {
	r.record("BeginExecuteBatch", in)
	return &BeginExecuteBatchResponse{}, nil
}

func (r *recordingServer) SplitQuery(_ context.Context, in *SplitQueryRequest) (*SplitQueryResponse, error) {
	r.record("SplitQuery", in)
	return &SplitQueryResponse{}, nil
}

func TestUnaryDispatchRoutesByMethodName(t *testing.T) {
	wantPairs := map[string][2]string{
		"GetSessionId":      {"*queryv1.GetSessionIdRequest", "*queryv1.GetSessionIdResponse"},
		"Execute":           {"*queryv1.ExecuteRequest", "*queryv1.ExecuteResponse"},
		"ExecuteBatch":      {"*queryv1.ExecuteBatchRequest", "*queryv1.ExecuteBatchResponse"},
		"Begin":             {"*queryv1.BeginRequest", "*queryv1.BeginResponse"},
		"Commit":            {"*queryv1.CommitRequest", "*queryv1.CommitResponse"},
		"Rollback":          {"*queryv1.RollbackRequest", "*queryv1.RollbackResponse"},
		"BeginExecute":      {"*queryv1.BeginExecuteRequest", "*queryv1.BeginExecuteResponse"},
		"BeginExecuteBatch": {"*queryv1.BeginExecuteBatchRequest", "*queryv1.BeginExecuteBatchResponse"},
		"SplitQuery":        {"*queryv1.SplitQueryRequest", "*queryv1.SplitQueryResponse"},
	}

	for _, m := range Query_ServiceDesc.Methods {
		srv := &recordingServer{}
		resp, err := m.Handler(srv, context.Background(), func(any) error { return nil }, nil)
		if err != nil {
			t.Fatalf("%s: handler error: %v", m.MethodName, err)
		}
		if srv.called != m.MethodName {
			t.Fatalf("%s routed to %s", m.MethodName, srv.called)
		}
		want, ok := wantPairs[m.MethodName]
		if !ok {
			t.Fatalf("unexpected method %s", m.MethodName)
		}
		if got := srv.reqType.String(); got != want[0] {
			t.Fatalf("%s: request type %s, want %s", m.MethodName, got, want[0])
		}
		if got := fmt.Sprintf("%T", resp); got != want[1] {
			t.Fatalf("%s: response type %s, want %s", m.MethodName, got, want[1])
		}
	}
}

func TestUnimplementedServerSignalsUnimplemented(t *testing.T) {
	for _, m := range Query_ServiceDesc.Methods {
		_, err := m.Handler(UnimplementedQueryServer{}, context.Background(), func(any) error { return nil }, nil)
		if err == nil {
			t.Fatalf("%s: expected error from unimplemented server", m.MethodName)
		}
		if status.Code(err) != codes.Unimplemented {
			t.Fatalf("%s: expected Unimplemented, got %v", m.MethodName, status.Code(err))
		}
	}

	var srv QueryServer = UnimplementedQueryServer{}
	if err := srv.StreamExecute(&StreamExecuteRequest{}, nil); status.Code(err) != codes.Unimplemented {
		t.Fatalf("StreamExecute: expected Unimplemented, got %v", err)
	}
	if err := srv.StreamHealth(&StreamHealthRequest{}, nil); status.Code(err) != codes.Unimplemented {
		t.Fatalf("StreamHealth: expected Unimplemented, got %v", err)
	}
}

func TestSessionIDFromRequest(t *testing.T) {
	if got := SessionIDFromRequest(&ExecuteRequest{SessionId: "sess"}); got != "sess" {
		t.Fatalf("expected session id, got %q", got)
	}
	if got := SessionIDFromRequest(&GetSessionIdRequest{}); got != "" {
		t.Fatalf("expected empty session id for GetSessionId, got %q", got)
	}
	if got := SessionIDFromRequest(nil); got != "" {
		t.Fatalf("expected empty session id for nil request, got %q", got)
	}
}
