package dispatcher

import (
	"context"
	"testing"

	"github.com/cascadedb/cascade/pkg/stream"
)

func TestBroadcastDispatcher_SendsToEveryOutput(t *testing.T) {
	outA := newFakeOutput(1)
	outB := newFakeOutput(2)
	d := NewBroadcastDispatcher(1, nil, []stream.Output{outA, outB})

	chunk := stream.NewChunk([]stream.Row{{Op: stream.Insert, Values: []any{int64(1)}}})
	if err := d.DispatchData(context.Background(), chunk); err != nil {
		t.Fatalf("DispatchData: %v", err)
	}
	if len(outA.sent) != 1 || len(outB.sent) != 1 {
		t.Fatalf("expected chunk broadcast to both outputs, got %d and %d", len(outA.sent), len(outB.sent))
	}
}

func TestBroadcastDispatcher_EmptyAfterAllOutputsRemoved(t *testing.T) {
	outA := newFakeOutput(1)
	d := NewBroadcastDispatcher(1, nil, []stream.Output{outA})
	d.RemoveOutputs(map[stream.ActorID]struct{}{1: {}})
	if !d.IsEmpty() {
		t.Error("expected dispatcher to be empty after removing its only output")
	}
}
