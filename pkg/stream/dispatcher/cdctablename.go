package dispatcher

import (
	"context"
	"fmt"

	"github.com/cascadedb/cascade/pkg/stream"
)

// CdcTableNameDispatcher filters rows by matching a designated string
// column (the logical source table name) against each downstream's
// configured table name, producing one chunk per matching output. Used
// when a single upstream CDC stream feeds multiple downstream tables
// (spec.md §4.3.5).
type CdcTableNameDispatcher struct {
	base
	tableNameCol int
	tableNames   map[stream.ActorID]string
}

// NewCdcTableNameDispatcher constructs a CdcTableName dispatcher.
// tableNameCol is the row-column index holding the source table name;
// tableNames maps each downstream actor to the table name it consumes.
func NewCdcTableNameDispatcher(id stream.DispatcherID, tableNameCol int, tableNames map[stream.ActorID]string, outputIndices []int, outs []stream.Output) *CdcTableNameDispatcher {
	return &CdcTableNameDispatcher{
		base:         newBase(id, outputIndices, outs),
		tableNameCol: tableNameCol,
		tableNames:   tableNames,
	}
}

func (d *CdcTableNameDispatcher) Kind() stream.DispatcherKind { return stream.KindCdcTableName }

// SetTableName registers (or updates) which downstream table name an
// actor id consumes.
func (d *CdcTableNameDispatcher) SetTableName(actorID stream.ActorID, tableName string) {
	if d.tableNames == nil {
		d.tableNames = make(map[stream.ActorID]string)
	}
	d.tableNames[actorID] = tableName
}

func (d *CdcTableNameDispatcher) DispatchData(ctx context.Context, chunk *stream.Chunk) error {
	n := len(chunk.Rows)
	rowNames := make([]string, n)
	for i, r := range chunk.Rows {
		name, ok := r.Values[d.tableNameCol].(string)
		if !ok {
			stream.PanicStateInconsistency(fmt.Sprintf("cdc table-name dispatcher %d: column %d is not a string", d.id, d.tableNameCol))
		}
		rowNames[i] = name
	}

	var firstErr error
	for _, actorID := range d.outputOrder {
		want, configured := d.tableNames[actorID]
		if !configured {
			continue
		}
		vis := stream.NewBitmap(n, false)
		visible := false
		for i := 0; i < n; i++ {
			if chunk.Vis.Get(i) && rowNames[i] == want {
				vis.Set(i, true)
				visible = true
			}
		}
		if !visible {
			continue
		}
		rows := make([]stream.Row, n)
		for i, r := range chunk.Rows {
			rows[i] = projectRow(r, d.outputIndices)
		}
		out := &stream.Chunk{Rows: rows, Vis: vis}
		if err := d.outputs[actorID].Send(ctx, out); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (d *CdcTableNameDispatcher) DispatchBarrier(ctx context.Context, b *stream.Barrier) error {
	return d.dispatchBarrier(ctx, b)
}

func (d *CdcTableNameDispatcher) DispatchWatermark(ctx context.Context, wm *stream.Watermark) error {
	return d.dispatchWatermark(ctx, wm)
}
