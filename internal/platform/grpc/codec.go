package grpc

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype under which the CBOR codec is
// registered. Clients select it with grpc.CallContentSubtype(CodecName);
// servers resolve it from the codec registry per call, so proto-encoded
// traffic (e.g. the standard health service) keeps working side by side.
const CodecName = "cbor"

// Codec marshals queryservice messages with CBOR. The contract messages in
// api/queryv1 are plain structs, so the default proto codec cannot carry
// them; CBOR gives a compact, schema-free wire form with stable field names
// from the struct tags.
type Codec struct{}

// Marshal implements encoding.Codec.
func (Codec) Marshal(v any) ([]byte, error) {
	data, err := cbor.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cbor marshal: %w", err)
	}
	return data, nil
}

// Unmarshal implements encoding.Codec.
func (Codec) Unmarshal(data []byte, v any) error {
	if err := cbor.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cbor unmarshal: %w", err)
	}
	return nil
}

// Name implements encoding.Codec.
func (Codec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(Codec{})
}
