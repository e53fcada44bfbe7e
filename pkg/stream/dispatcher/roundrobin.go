package dispatcher

import (
	"context"

	"github.com/cascadedb/cascade/pkg/stream"
)

// RoundRobinDispatcher cycles through outputs modulo their count, one
// per chunk. Useful when no partitioning key exists (spec.md §4.3.4).
type RoundRobinDispatcher struct {
	base
	next int
}

// NewRoundRobinDispatcher constructs a RoundRobin dispatcher.
func NewRoundRobinDispatcher(id stream.DispatcherID, outputIndices []int, outs []stream.Output) *RoundRobinDispatcher {
	return &RoundRobinDispatcher{base: newBase(id, outputIndices, outs)}
}

func (d *RoundRobinDispatcher) Kind() stream.DispatcherKind { return stream.KindRoundRobin }

func (d *RoundRobinDispatcher) DispatchData(ctx context.Context, chunk *stream.Chunk) error {
	if d.OutputCount() == 0 {
		return nil
	}
	idx := d.next % d.OutputCount()
	d.next++
	projected := chunk
	if d.outputIndices != nil {
		projected = chunk.Project(d.outputIndices)
	}
	return d.outputs[d.outputOrder[idx]].Send(ctx, projected)
}

func (d *RoundRobinDispatcher) DispatchBarrier(ctx context.Context, b *stream.Barrier) error {
	return d.dispatchBarrier(ctx, b)
}

func (d *RoundRobinDispatcher) DispatchWatermark(ctx context.Context, wm *stream.Watermark) error {
	return d.dispatchWatermark(ctx, wm)
}
