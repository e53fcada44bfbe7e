// Package streampb is the wire encoding for Output's remote transport.
// spec.md §1 places the RPC wire format itself out of scope ("described
// only by their interfaces where the core touches them"); this package
// exists only so RemoteOutput is a genuine second Output implementation
// rather than a stub, hand-following the shape protoc-gen-go would
// produce (the teacher vendors its own proxy-api client rather than
// generating one in-tree, so there is no teacher file to copy here —
// this is grounded directly in google.golang.org/protobuf's own
// low-level protowire encoding, the same wire primitives protoc-gen-go
// would emit calls into).
package streampb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Kind tags which of Chunk/Barrier/Watermark an Envelope carries.
type Kind uint8

const (
	KindChunk Kind = iota + 1
	KindBarrier
	KindWatermark
)

// Envelope is the on-wire message for one Output.Send call. Field
// numbers below are fixed and never reused, as protobuf requires.
//
//	1: kind (varint)
//	2: epoch (varint)            - Barrier
//	3: mutation (bytes, gob)     - Barrier, optional
//	4: col_idx (zigzag varint)   - Watermark
//	5: value (zigzag varint)     - Watermark
//	6: chunk (bytes, gob)        - Chunk
//	7: target_actor (varint)     - every kind: the receiving actor id
type Envelope struct {
	Kind        Kind
	Epoch       uint64
	Mutation    []byte
	ColIdx      int32
	Value       int64
	Chunk       []byte
	TargetActor uint32
}

// Marshal encodes e as protobuf wire bytes.
func (e *Envelope) Marshal() []byte {
	var buf []byte
	buf = protowire.AppendTag(buf, 1, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(e.Kind))
	if e.Epoch != 0 {
		buf = protowire.AppendTag(buf, 2, protowire.VarintType)
		buf = protowire.AppendVarint(buf, e.Epoch)
	}
	if len(e.Mutation) > 0 {
		buf = protowire.AppendTag(buf, 3, protowire.BytesType)
		buf = protowire.AppendBytes(buf, e.Mutation)
	}
	if e.ColIdx != 0 {
		buf = protowire.AppendTag(buf, 4, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(protowire.EncodeZigZag(int64(e.ColIdx))))
	}
	if e.Value != 0 {
		buf = protowire.AppendTag(buf, 5, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(protowire.EncodeZigZag(e.Value)))
	}
	if len(e.Chunk) > 0 {
		buf = protowire.AppendTag(buf, 6, protowire.BytesType)
		buf = protowire.AppendBytes(buf, e.Chunk)
	}
	if e.TargetActor != 0 {
		buf = protowire.AppendTag(buf, 7, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(e.TargetActor))
	}
	return buf
}

// Unmarshal decodes protobuf wire bytes into e.
func (e *Envelope) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("streampb: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("streampb: bad kind: %w", protowire.ParseError(n))
			}
			e.Kind = Kind(v)
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("streampb: bad epoch: %w", protowire.ParseError(n))
			}
			e.Epoch = v
			b = b[n:]
		case 3:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("streampb: bad mutation bytes: %w", protowire.ParseError(n))
			}
			e.Mutation = append([]byte(nil), v...)
			b = b[n:]
		case 4:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("streampb: bad col_idx: %w", protowire.ParseError(n))
			}
			e.ColIdx = int32(protowire.DecodeZigZag(v))
			b = b[n:]
		case 5:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("streampb: bad value: %w", protowire.ParseError(n))
			}
			e.Value = protowire.DecodeZigZag(v)
			b = b[n:]
		case 6:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("streampb: bad chunk bytes: %w", protowire.ParseError(n))
			}
			e.Chunk = append([]byte(nil), v...)
			b = b[n:]
		case 7:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("streampb: bad target_actor: %w", protowire.ParseError(n))
			}
			e.TargetActor = uint32(v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("streampb: bad field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}
