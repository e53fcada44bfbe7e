package dispatcher

import (
	"context"

	"github.com/cascadedb/cascade/pkg/stream"
)

// BroadcastDispatcher sends the entire projected chunk to every output,
// with no op rewrite (spec.md §4.3.2).
type BroadcastDispatcher struct {
	base
}

// NewBroadcastDispatcher constructs a Broadcast dispatcher.
func NewBroadcastDispatcher(id stream.DispatcherID, outputIndices []int, outs []stream.Output) *BroadcastDispatcher {
	return &BroadcastDispatcher{base: newBase(id, outputIndices, outs)}
}

func (d *BroadcastDispatcher) Kind() stream.DispatcherKind { return stream.KindBroadcast }

func (d *BroadcastDispatcher) DispatchData(ctx context.Context, chunk *stream.Chunk) error {
	projected := chunk
	if d.outputIndices != nil {
		projected = chunk.Project(d.outputIndices)
	}
	var firstErr error
	for _, o := range d.orderedOutputs() {
		if err := o.Send(ctx, projected); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (d *BroadcastDispatcher) DispatchBarrier(ctx context.Context, b *stream.Barrier) error {
	return d.dispatchBarrier(ctx, b)
}

func (d *BroadcastDispatcher) DispatchWatermark(ctx context.Context, wm *stream.Watermark) error {
	return d.dispatchWatermark(ctx, wm)
}
