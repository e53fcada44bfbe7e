package dispatcher

import (
	"context"
	"fmt"

	"github.com/cascadedb/cascade/pkg/stream"
)

// SimpleDispatcher has exactly one output in steady state. It is
// transiently empty (after a drop, cleaned up within one barrier) or
// holds two outputs during singleton migration, when a barrier must
// reach both the old and new downstream for synchronization (spec.md
// §4.3.3, §4.5).
type SimpleDispatcher struct {
	base
}

// NewSimpleDispatcher constructs a Simple dispatcher.
func NewSimpleDispatcher(id stream.DispatcherID, outputIndices []int, outs []stream.Output) *SimpleDispatcher {
	return &SimpleDispatcher{base: newBase(id, outputIndices, outs)}
}

func (d *SimpleDispatcher) Kind() stream.DispatcherKind { return stream.KindSimple }

// DispatchData asserts exactly one output; dispatching data while two
// outputs are present (mid singleton-migration) is forbidden (spec.md
// §4.5: "dispatching chunks while in this 2-output state is forbidden
// (asserted)").
func (d *SimpleDispatcher) DispatchData(ctx context.Context, chunk *stream.Chunk) error {
	if d.OutputCount() != 1 {
		stream.PanicStateInconsistency(fmt.Sprintf("simple dispatcher %d: expected exactly one output for dispatch_data, have %d", d.id, d.OutputCount()))
	}
	projected := chunk
	if d.outputIndices != nil {
		projected = chunk.Project(d.outputIndices)
	}
	return d.outputs[d.outputOrder[0]].Send(ctx, projected)
}

// DispatchBarrier tolerates 0-2 outputs, sending to each present.
func (d *SimpleDispatcher) DispatchBarrier(ctx context.Context, b *stream.Barrier) error {
	return d.dispatchBarrier(ctx, b)
}

func (d *SimpleDispatcher) DispatchWatermark(ctx context.Context, wm *stream.Watermark) error {
	return d.dispatchWatermark(ctx, wm)
}
