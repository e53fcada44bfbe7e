// Package dispatcher implements the five dispatch strategies that route
// one input stream of messages to N downstream outputs (spec.md §4.3).
package dispatcher

import (
	"context"

	"github.com/cascadedb/cascade/pkg/stream"
)

// Dispatcher is the shared trait every variant implements (spec.md
// §4.3). Tagged-variant dispatch over concrete types, not an interface
// hierarchy with virtual calls in the hot path, is the source's own
// design choice (spec.md §9); in Go the interface boundary is cheap
// enough that we keep one interface and five concrete implementations,
// matching how the teacher treats its own dispatch-shaped abstractions
// (one interface, few concrete senders) rather than a class hierarchy.
type Dispatcher interface {
	ID() stream.DispatcherID
	Kind() stream.DispatcherKind
	DispatchData(ctx context.Context, chunk *stream.Chunk) error
	DispatchBarrier(ctx context.Context, b *stream.Barrier) error
	DispatchWatermark(ctx context.Context, wm *stream.Watermark) error
	AddOutputs(outs ...stream.Output)
	RemoveOutputs(actorIDs map[stream.ActorID]struct{})
	IsEmpty() bool
	OutputIndices() []int
}

// base holds the state and behavior shared by every dispatcher variant:
// the output set (keyed by actor id so duplicates collapse, spec.md
// §4.3.2) plus barrier/watermark broadcast, which are identical across
// all five variants.
type base struct {
	id            stream.DispatcherID
	outputOrder   []stream.ActorID
	outputs       map[stream.ActorID]stream.Output
	outputIndices []int
}

func newBase(id stream.DispatcherID, outputIndices []int, outs []stream.Output) base {
	b := base{
		id:            id,
		outputs:       make(map[stream.ActorID]stream.Output, len(outs)),
		outputIndices: outputIndices,
	}
	b.AddOutputs(outs...)
	return b
}

func (b *base) ID() stream.DispatcherID   { return b.id }
func (b *base) IsEmpty() bool             { return len(b.outputs) == 0 }
func (b *base) OutputIndices() []int      { return b.outputIndices }
func (b *base) OutputCount() int          { return len(b.outputs) }

// AddOutputs adds outputs, ignoring any whose actor id is already
// present (spec.md §4.3.2: "outputs is keyed by actor id; duplicates
// ignored").
func (b *base) AddOutputs(outs ...stream.Output) {
	for _, o := range outs {
		id := o.ActorID()
		if _, ok := b.outputs[id]; ok {
			continue
		}
		b.outputs[id] = o
		b.outputOrder = append(b.outputOrder, id)
	}
}

// RemoveOutputs drops outputs addressed to the given actors.
func (b *base) RemoveOutputs(actorIDs map[stream.ActorID]struct{}) {
	if len(actorIDs) == 0 {
		return
	}
	kept := b.outputOrder[:0]
	for _, id := range b.outputOrder {
		if _, drop := actorIDs[id]; drop {
			delete(b.outputs, id)
			continue
		}
		kept = append(kept, id)
	}
	b.outputOrder = kept
}

// orderedOutputs returns the current outputs in stable registration
// order, for deterministic iteration (round robin, tests).
func (b *base) orderedOutputs() []stream.Output {
	outs := make([]stream.Output, 0, len(b.outputOrder))
	for _, id := range b.outputOrder {
		outs = append(outs, b.outputs[id])
	}
	return outs
}

// dispatchBarrier always sends the barrier to every current output
// (spec.md §4.3: "dispatch_barrier(barrier): always sends the barrier to
// every current output"). A send failure does not stop the sweep: per
// spec.md §7, barrier dispatch must still attempt every remaining
// output so reachable downstreams observe the barrier and can shut down
// cleanly; the first error encountered is returned once the sweep
// completes.
func (b *base) dispatchBarrier(ctx context.Context, bar *stream.Barrier) error {
	var firstErr error
	for _, o := range b.orderedOutputs() {
		if err := o.Send(ctx, bar); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// dispatchWatermark transforms wm through output_indices and broadcasts
// it only if the watermarked column survives the projection (spec.md
// §4.3: "dispatch_watermark(wm): transform via output_indices; if the
// watermarked column survives the projection, broadcast").
func (b *base) dispatchWatermark(ctx context.Context, wm *stream.Watermark) error {
	projected, ok := projectWatermark(wm, b.outputIndices)
	if !ok {
		return nil
	}
	var firstErr error
	for _, o := range b.orderedOutputs() {
		if err := o.Send(ctx, projected); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// projectWatermark remaps wm.ColIdx through outputIndices (the
// post-partitioning projection). A nil outputIndices means "no
// projection", so every column (and thus every watermark) survives.
func projectWatermark(wm *stream.Watermark, outputIndices []int) (*stream.Watermark, bool) {
	if outputIndices == nil {
		return wm, true
	}
	for newIdx, oldIdx := range outputIndices {
		if oldIdx == wm.ColIdx {
			return &stream.Watermark{ColIdx: newIdx, Value: wm.Value}, true
		}
	}
	return nil, false
}

func projectRow(r stream.Row, outputIndices []int) stream.Row {
	if outputIndices == nil {
		return r
	}
	vals := make([]any, len(outputIndices))
	for i, idx := range outputIndices {
		vals[i] = r.Values[idx]
	}
	return stream.Row{Op: r.Op, Values: vals}
}
