package stream

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/cascadedb/cascade/pkg/streampb"
)

func init() {
	// Registered so Row.Values (an []any) round-trips through gob for the
	// scalar types the rest of this module actually produces; a richer
	// type system belongs to the binder/storage layers, out of scope here.
	gob.Register(int64(0))
	gob.Register(float64(0))
	gob.Register("")
	gob.Register(false)
}

// chunkWire is the gob-encoded payload carried in streampb.Envelope.Chunk.
// Bitmap's fields are unexported (gob drops those silently), so its word
// storage is carried out-of-band via Bitmap.Words/BitmapFromWords.
type chunkWire struct {
	Rows    []Row
	VisLen  int
	VisWord []uint64
}

// RemoteOutput is an Output that forwards messages to another
// cascade-node process over gRPC, the second Output implementation
// alongside LocalOutput (spec.md §4.1: dispatch must not care which).
// Transport framing mirrors the teacher's client-streaming usage of its
// generated destination client; the wire bytes themselves are hand-coded
// in pkg/streampb since this module has no protoc step.
type RemoteOutput struct {
	actorID ActorID
	client  streampb.DispatchClient

	mu     sync.Mutex
	stream streampb.DispatchService_DispatchClient
}

// NewRemoteOutput builds a RemoteOutput addressed to actorID over an
// already-dialed gRPC connection's DispatchClient.
func NewRemoteOutput(actorID ActorID, client streampb.DispatchClient) *RemoteOutput {
	return &RemoteOutput{actorID: actorID, client: client}
}

func (o *RemoteOutput) ActorID() ActorID { return o.actorID }

// Send encodes msg as a streampb.Envelope and writes it to the
// underlying gRPC stream, opening the stream lazily on first use.
func (o *RemoteOutput) Send(ctx context.Context, msg Message) error {
	env, err := encodeEnvelope(msg)
	if err != nil {
		return err
	}
	env.TargetActor = uint32(o.actorID)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stream == nil {
		s, err := o.client.Dispatch(ctx)
		if err != nil {
			return fmt.Errorf("stream: dial remote output: %w", err)
		}
		o.stream = s
	}
	return o.stream.Send(env)
}

// Close ends the underlying gRPC stream, if one was ever opened.
func (o *RemoteOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stream == nil {
		return nil
	}
	_, err := o.stream.CloseAndRecv()
	o.stream = nil
	return err
}

func encodeEnvelope(msg Message) (*streampb.Envelope, error) {
	switch m := msg.(type) {
	case *Chunk:
		var buf bytes.Buffer
		w := chunkWire{Rows: m.Rows, VisLen: m.Vis.Len(), VisWord: m.Vis.Words()}
		if err := gob.NewEncoder(&buf).Encode(w); err != nil {
			return nil, fmt.Errorf("stream: encode chunk: %w", err)
		}
		return &streampb.Envelope{Kind: streampb.KindChunk, Chunk: buf.Bytes()}, nil

	case *Barrier:
		env := &streampb.Envelope{Kind: streampb.KindBarrier, Epoch: m.Epoch}
		if m.Mutation != nil {
			var buf bytes.Buffer
			if err := gob.NewEncoder(&buf).Encode(m.Mutation); err != nil {
				return nil, fmt.Errorf("stream: encode mutation: %w", err)
			}
			env.Mutation = buf.Bytes()
		}
		return env, nil

	case *Watermark:
		return &streampb.Envelope{Kind: streampb.KindWatermark, ColIdx: int32(m.ColIdx), Value: m.Value}, nil

	default:
		return nil, fmt.Errorf("stream: unknown message type %T", msg)
	}
}

// DecodeEnvelope reverses the encoding RemoteOutput.Send performs; a
// remote-transport receiver (e.g. the cascade-node server loop) uses it
// to recover a Message, and env.TargetActor, from an inbound
// streampb.Envelope.
func DecodeEnvelope(env *streampb.Envelope) (Message, error) {
	switch env.Kind {
	case streampb.KindChunk:
		var w chunkWire
		if err := gob.NewDecoder(bytes.NewReader(env.Chunk)).Decode(&w); err != nil {
			return nil, fmt.Errorf("stream: decode chunk: %w", err)
		}
		return &Chunk{Rows: w.Rows, Vis: BitmapFromWords(w.VisLen, w.VisWord)}, nil

	case streampb.KindBarrier:
		b := &Barrier{Epoch: env.Epoch}
		if len(env.Mutation) > 0 {
			var mut Mutation
			if err := gob.NewDecoder(bytes.NewReader(env.Mutation)).Decode(&mut); err != nil {
				return nil, fmt.Errorf("stream: decode mutation: %w", err)
			}
			b.Mutation = &mut
		}
		return b, nil

	case streampb.KindWatermark:
		return &Watermark{ColIdx: int(env.ColIdx), Value: env.Value}, nil

	default:
		return nil, fmt.Errorf("stream: unknown envelope kind %d", env.Kind)
	}
}
