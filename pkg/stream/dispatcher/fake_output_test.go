package dispatcher

import (
	"context"

	"github.com/cascadedb/cascade/pkg/stream"
)

// fakeOutput records every message sent to it, grounded on the
// teacher's hand-written test fakes (controller/api/destination's
// mockSnapshotTopic) rather than a mocking framework.
type fakeOutput struct {
	actorID stream.ActorID
	sent    []stream.Message
	closed  bool
	failNext bool
}

func newFakeOutput(id stream.ActorID) *fakeOutput {
	return &fakeOutput{actorID: id}
}

func (f *fakeOutput) ActorID() stream.ActorID { return f.actorID }

func (f *fakeOutput) Send(ctx context.Context, msg stream.Message) error {
	if f.failNext {
		f.failNext = false
		return stream.ErrChannelClosed
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeOutput) Close() error {
	f.closed = true
	return nil
}

func (f *fakeOutput) chunks() []*stream.Chunk {
	var out []*stream.Chunk
	for _, m := range f.sent {
		if c, ok := m.(*stream.Chunk); ok {
			out = append(out, c)
		}
	}
	return out
}
