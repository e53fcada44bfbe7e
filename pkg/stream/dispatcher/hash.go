package dispatcher

import (
	"context"

	"github.com/cascadedb/cascade/pkg/stream"
)

// HashDispatcher partitions each chunk by a stable hash over key columns
// and rewrites update pairs that cross partitions (spec.md §4.3.1).
type HashDispatcher struct {
	base
	keys       []int
	mapping    *stream.HashMapping
	vnodeCount int
}

// NewHashDispatcher constructs a Hash dispatcher. The vnode count is taken
// from mapping.Len() (normally stream.VirtualNodeCount), so tests can
// exercise small mappings without allocating the full table.
func NewHashDispatcher(id stream.DispatcherID, keys []int, mapping *stream.HashMapping, outputIndices []int, outs []stream.Output) *HashDispatcher {
	return &HashDispatcher{
		base:       newBase(id, outputIndices, outs),
		keys:       keys,
		mapping:    mapping,
		vnodeCount: mapping.Len(),
	}
}

func (d *HashDispatcher) Kind() stream.DispatcherKind { return stream.KindHash }

// SetHashMapping replaces the mapping wholesale (never mutated in
// place, spec.md §9), used by the executor's post-barrier phase when an
// Update mutation carries a new mapping for this dispatcher (spec.md
// §4.4: "replaces its mapping only in the post phase, after the barrier
// has been broadcast with the old mapping").
func (d *HashDispatcher) SetHashMapping(m *stream.HashMapping) {
	d.mapping = m
	d.vnodeCount = m.Len()
}

func keyProjection(r stream.Row, keys []int) []any {
	vals := make([]any, len(keys))
	for i, k := range keys {
		vals[i] = r.Values[k]
	}
	return vals
}

// DispatchData implements the algorithm of spec.md §4.3.1:
//  1. compute a vnode per row (including invisible rows, so update-pair
//     rewrite can track the last-seen vnode across invisible
//     predecessors);
//  2. per output, a row is visible iff the owner of its vnode is that
//     output's actor AND the row was originally visible;
//  3. rewrite UpdateDelete/UpdateInsert pairs that cross actors into
//     Delete/Insert;
//  4. project columns and emit one chunk per output with non-empty
//     visibility.
func (d *HashDispatcher) DispatchData(ctx context.Context, chunk *stream.Chunk) error {
	n := len(chunk.Rows)
	vnodes := make([]stream.VirtualNode, n)
	owners := make([]stream.ActorID, n)
	for i, r := range chunk.Rows {
		vnodes[i] = stream.VNodeOf(keyProjection(r, d.keys), d.vnodeCount)
		owners[i] = d.mapping.Lookup(vnodes[i])
	}

	ops := rewriteUpdatePairs(chunk.Rows, owners)

	var firstErr error
	for _, actorID := range d.outputOrder {
		out := d.outputs[actorID]
		vis := stream.NewBitmap(n, false)
		visible := false
		for i := 0; i < n; i++ {
			if owners[i] == actorID && chunk.Vis.Get(i) {
				vis.Set(i, true)
				visible = true
			}
		}
		if !visible {
			continue
		}
		rows := make([]stream.Row, n)
		for i, r := range chunk.Rows {
			rows[i] = projectRow(stream.Row{Op: ops[i], Values: r.Values}, d.outputIndices)
		}
		out2 := &stream.Chunk{Rows: rows, Vis: vis}
		if err := out.Send(ctx, out2); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// rewriteUpdatePairs decomposes UpdateDelete/UpdateInsert pairs whose
// two rows map to different actors into Delete/Insert (spec.md §4.3.1,
// step 3). Rows outside an update pair keep their original op.
func rewriteUpdatePairs(rows []stream.Row, owners []stream.ActorID) []stream.Op {
	ops := make([]stream.Op, len(rows))
	for i, r := range rows {
		ops[i] = r.Op
	}
	for i := 0; i < len(rows)-1; i++ {
		if rows[i].Op != stream.UpdateDelete || rows[i+1].Op != stream.UpdateInsert {
			continue
		}
		if owners[i] != owners[i+1] {
			ops[i] = stream.Delete
			ops[i+1] = stream.Insert
		}
		i++ // the pair is consumed together; never re-pair the insert half
	}
	return ops
}

func (d *HashDispatcher) DispatchBarrier(ctx context.Context, b *stream.Barrier) error {
	return d.dispatchBarrier(ctx, b)
}

func (d *HashDispatcher) DispatchWatermark(ctx context.Context, wm *stream.Watermark) error {
	return d.dispatchWatermark(ctx, wm)
}
