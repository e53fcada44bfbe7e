package streampb

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protowire"
)

// ServiceName is the gRPC service a cascade-node advertises for remote
// dispatch, analogous to the teacher's destination.Destination service
// (controller/gen/proto/go/proxy/destination/destination_grpc.pb.go)
// but hand-declared here since there is no protoc step in this module.
const ServiceName = "cascade.stream.Dispatch"

// DispatchServer is implemented by the actor-side receiver of a remote
// dispatcher edge: every Envelope sent over the stream is one Message.
type DispatchServer interface {
	Dispatch(stream DispatchService_DispatchServer) error
}

// DispatchService_DispatchServer is the server-side handle on the
// client-streaming RPC (named to mirror protoc-gen-go-grpc's
// convention: <Service>_<Method>Server).
type DispatchService_DispatchServer interface {
	Recv() (*Envelope, error)
	SendAndClose(*Ack) error
	grpc.ServerStream
}

// Ack closes a Dispatch stream. It does not report malformed envelopes:
// the cascade-node receiver logs and drops those, and always closes the
// stream with Accepted set to true.
type Ack struct{ Accepted bool }

// Marshal encodes ack as a single protobuf varint field.
func (a *Ack) Marshal() []byte {
	var v uint64
	if a.Accepted {
		v = 1
	}
	var buf []byte
	buf = protowire.AppendTag(buf, 1, protowire.VarintType)
	buf = protowire.AppendVarint(buf, v)
	return buf
}

// Unmarshal decodes ack from protobuf wire bytes.
func (a *Ack) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("streampb: bad ack tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		if num == 1 {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("streampb: bad ack value: %w", protowire.ParseError(n))
			}
			a.Accepted = v != 0
			b = b[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return fmt.Errorf("streampb: bad ack field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}

// ServiceDesc is the grpc.ServiceDesc a cascade-node registers on its
// *grpc.Server, replacing the generated RegisterDispatchServiceServer
// call protoc-gen-go-grpc would otherwise produce.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DispatchServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Dispatch",
			Handler:       dispatchHandler,
			ClientStreams: true,
		},
	},
	Metadata: "cascade/streampb/service.proto",
}

func dispatchHandler(srv any, stream grpc.ServerStream) error {
	return srv.(DispatchServer).Dispatch(&dispatchServerStream{stream})
}

type dispatchServerStream struct{ grpc.ServerStream }

func (s *dispatchServerStream) Recv() (*Envelope, error) {
	m := new(Envelope)
	if err := s.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *dispatchServerStream) SendAndClose(ack *Ack) error {
	return s.SendMsg(ack)
}

// DispatchClient is the outbound half a RemoteOutput drives.
type DispatchClient interface {
	Dispatch(ctx context.Context, opts ...grpc.CallOption) (DispatchService_DispatchClient, error)
}

type DispatchService_DispatchClient interface {
	Send(*Envelope) error
	CloseAndRecv() (*Ack, error)
	grpc.ClientStream
}

type dispatchClient struct{ cc grpc.ClientConnInterface }

// NewDispatchClient builds a DispatchClient bound to cc, encoding every
// Envelope with the cascade-envelope codec registered in codec.go.
func NewDispatchClient(cc grpc.ClientConnInterface) DispatchClient {
	return &dispatchClient{cc}
}

func (c *dispatchClient) Dispatch(ctx context.Context, opts ...grpc.CallOption) (DispatchService_DispatchClient, error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], "/"+ServiceName+"/Dispatch", opts...)
	if err != nil {
		return nil, err
	}
	return &dispatchClientStream{stream}, nil
}

type dispatchClientStream struct{ grpc.ClientStream }

func (s *dispatchClientStream) Send(e *Envelope) error {
	return s.SendMsg(e)
}

func (s *dispatchClientStream) CloseAndRecv() (*Ack, error) {
	if err := s.CloseSend(); err != nil {
		return nil, err
	}
	ack := new(Ack)
	if err := s.RecvMsg(ack); err != nil {
		return nil, err
	}
	return ack, nil
}
