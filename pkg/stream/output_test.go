package stream

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestLocalOutput_SendAndRecv(t *testing.T) {
	out := NewLocalOutput(1, 2, time.Second, nil)
	msg := &Watermark{ColIdx: 0, Value: 1}
	if err := out.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	select {
	case got := <-out.Recv():
		if got != Message(msg) {
			t.Errorf("Recv() = %v, want %v", got, msg)
		}
	default:
		t.Fatal("expected message available on Recv()")
	}
}

func TestLocalOutput_SendAfterCloseFails(t *testing.T) {
	out := NewLocalOutput(1, 1, time.Second, nil)
	out.Close()
	if err := out.Send(context.Background(), &Watermark{}); err != ErrChannelClosed {
		t.Fatalf("Send after Close = %v, want ErrChannelClosed", err)
	}
}

func TestLocalOutput_CloseIsIdempotent(t *testing.T) {
	out := NewLocalOutput(1, 1, time.Second, nil)
	out.Close()
	out.Close() // must not panic on double-close
}

// A full queue is ordinary backpressure (spec.md §4.1, §9), not a
// failure: Send must keep suspending past the send-timeout interval
// rather than giving up with ErrChannelClosed, and must still unblock
// once the queue drains.
func TestLocalOutput_SendKeepsBlockingPastSendTimeoutOnFullQueue(t *testing.T) {
	out := NewLocalOutput(1, 1, 20*time.Millisecond, nil)
	// Fill the one-slot queue without draining it.
	if err := out.Send(context.Background(), &Watermark{}); err != nil {
		t.Fatalf("first Send: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- out.Send(context.Background(), &Watermark{}) }()

	select {
	case err := <-done:
		t.Fatalf("Send on a full queue returned early (%v); it must keep suspending", err)
	case <-time.After(100 * time.Millisecond):
		// still blocked well past the 20ms send-timeout interval, as required.
	}

	<-out.Recv() // drain the queued message, freeing a slot
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Send() = %v, want nil once the queue drained", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the blocked Send to complete after draining")
	}
}

// TestLocalOutput_SendReportsSlowSendWithoutFailing verifies the
// send-timeout interval only drives the informational slow-send counter
// and never fails the call.
func TestLocalOutput_SendReportsSlowSendWithoutFailing(t *testing.T) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_slow_sends_total"})
	out := NewLocalOutput(1, 1, 10*time.Millisecond, counter)
	if err := out.Send(context.Background(), &Watermark{}); err != nil {
		t.Fatalf("first Send: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- out.Send(context.Background(), &Watermark{}) }()

	time.Sleep(50 * time.Millisecond) // several send-timeout intervals
	<-out.Recv()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Send() = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Send to complete")
	}

	var m dto.Metric
	if err := counter.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.Counter.GetValue() == 0 {
		t.Error("expected the slow-send counter to have been incremented at least once")
	}
}

func TestLocalOutput_SendRespectsContextCancellation(t *testing.T) {
	out := NewLocalOutput(1, 1, time.Hour, nil)
	if err := out.Send(context.Background(), &Watermark{}); err != nil {
		t.Fatalf("first Send: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := out.Send(ctx, &Watermark{}); err != ctx.Err() {
		t.Fatalf("Send with canceled context = %v, want context.Canceled", err)
	}
}

func TestChunk_Project(t *testing.T) {
	c := NewChunk([]Row{
		{Op: Insert, Values: []any{"a", int64(1), true}},
		{Op: Delete, Values: []any{"b", int64(2), false}},
	})
	c.Vis.Set(1, false)

	projected := c.Project([]int{2, 0})
	if len(projected.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(projected.Rows))
	}
	if projected.Rows[0].Values[0] != true || projected.Rows[0].Values[1] != "a" {
		t.Errorf("row 0 projected = %+v", projected.Rows[0].Values)
	}
	if projected.Vis.Get(0) != true || projected.Vis.Get(1) != false {
		t.Error("Project must carry visibility over unchanged")
	}
	if projected.Rows[0].Op != Insert || projected.Rows[1].Op != Delete {
		t.Error("Project must carry Op over unchanged")
	}
}
