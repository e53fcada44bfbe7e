package streampb

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// codecName is registered with grpc's encoding registry so a call made
// with grpc.CallContentSubtype(codecName) exchanges raw Envelope wire
// bytes instead of requiring a generated proto.Message type.
const codecName = "cascade-envelope"

func init() {
	encoding.RegisterCodec(envelopeCodec{})
}

type envelopeCodec struct{}

func (envelopeCodec) Name() string { return codecName }

// wireMessage is implemented by every message type this codec carries
// (Envelope and Ack); both hand-encode themselves as protobuf wire
// bytes via google.golang.org/protobuf/encoding/protowire.
type wireMessage interface {
	Marshal() []byte
	Unmarshal([]byte) error
}

func (envelopeCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("streampb: codec cannot marshal %T", v)
	}
	return m.Marshal(), nil
}

func (envelopeCodec) Unmarshal(data []byte, v any) error {
	m, ok := v.(wireMessage)
	if !ok {
		return fmt.Errorf("streampb: codec cannot unmarshal into %T", v)
	}
	return m.Unmarshal(data)
}
