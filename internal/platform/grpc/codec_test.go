package grpc

import (
	"testing"

	"google.golang.org/grpc/encoding"

	queryv1 "github.com/tabletdb/tabletd/api/queryv1"
)

func TestCodecIsRegistered(t *testing.T) {
	codec := encoding.GetCodec(CodecName)
	if codec == nil {
		t.Fatal("cbor codec is not registered")
	}
	if codec.Name() != CodecName {
		t.Fatalf("expected codec name %q, got %q", CodecName, codec.Name())
	}
}

func TestCodecRoundTripsContractMessages(t *testing.T) {
	in := &queryv1.ExecuteRequest{
		SessionId: "session-token",
		Query: queryv1.BoundQuery{
			Sql:           "select id, name from users where id = :id",
			BindVariables: map[string]any{"id": int64(42)},
		},
		TransactionId: 7,
	}

	data, err := Codec{}.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	out := &queryv1.ExecuteRequest{}
	if err := (Codec{}).Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.SessionId != in.SessionId {
		t.Fatalf("session id: got %q, want %q", out.SessionId, in.SessionId)
	}
	if out.Query.Sql != in.Query.Sql {
		t.Fatalf("sql: got %q, want %q", out.Query.Sql, in.Query.Sql)
	}
	if out.TransactionId != in.TransactionId {
		t.Fatalf("transaction id: got %d, want %d", out.TransactionId, in.TransactionId)
	}
	if len(out.Query.BindVariables) != 1 {
		t.Fatalf("expected 1 bind variable, got %d", len(out.Query.BindVariables))
	}
}

func TestCodecRejectsUnmarshalableInput(t *testing.T) {
	out := &queryv1.ExecuteRequest{}
	if err := (Codec{}).Unmarshal([]byte{0xff, 0x00}, out); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
