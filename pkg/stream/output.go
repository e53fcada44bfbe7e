package stream

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Output is an addressable sink for messages to one downstream actor. It
// abstracts local in-process delivery from remote transport so the
// dispatcher can treat both uniformly (spec.md §4.1).
//
// Send must preserve message order per (sender, receiver) pair. Back
// pressure is expressed by Send blocking/suspending; callers must treat
// that as normal, not as an error.
type Output interface {
	Send(ctx context.Context, msg Message) error
	ActorID() ActorID
	Close() error
}

// DefaultSendTimeout is how long a full LocalOutput queue is given
// between "slow send" reports to sendTimeoutCounter, not a deadline
// Send gives up at: spec.md §9 makes bounded-channel suspension the
// only form of flow control, so a blocked Send is never itself an
// error.
const DefaultSendTimeout = 30 * time.Second

// LocalOutput is a bounded in-memory queue between two actors in the
// same process. Its enqueue strategy is grounded on
// controller/api/destination/endpoint_stream_dispatcher.go's
// non-blocking-send-first idiom, adapted so the bounded wait that
// follows only reports slowness instead of resetting the downstream:
// here a full queue addresses a live, merely backpressured actor, not a
// single recoverable proxy-watch stream the teacher can freely reset.
type LocalOutput struct {
	actorID     ActorID
	ch          chan Message
	sendTimeout time.Duration
	closed      chan struct{}
	closeOnce   chan struct{}

	sendTimeoutCounter prometheus.Counter
}

// NewLocalOutput creates a LocalOutput addressed to actorID with the
// given queue capacity (the configured constant per output, spec.md §9).
func NewLocalOutput(actorID ActorID, capacity int, sendTimeout time.Duration, sendTimeoutCounter prometheus.Counter) *LocalOutput {
	if capacity <= 0 {
		capacity = 1
	}
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &LocalOutput{
		actorID:     actorID,
		ch:          make(chan Message, capacity),
		sendTimeout: sendTimeout,
		closed:      make(chan struct{}),
		closeOnce:   make(chan struct{}, 1),
		sendTimeoutCounter: sendTimeoutCounter,
	}
}

// ActorID returns the downstream actor this output addresses.
func (o *LocalOutput) ActorID() ActorID { return o.actorID }

// Recv exposes the channel end a downstream actor reads from. It is not
// part of the Output contract; it is how the in-process transport wires
// an Output to its receiving actor's input stream.
func (o *LocalOutput) Recv() <-chan Message { return o.ch }

// Send enqueues msg, suspending (blocking) under back-pressure. Per
// spec.md §4.1/§9, a full queue is normal, recoverable flow control, not
// a failure: Send suspends until the message is enqueued, the context is
// canceled, or the output is closed. It returns ErrChannelClosed only
// when the output has actually been closed, never merely because the
// downstream is slow.
//
// sendTimeout does not bound how long Send may block; it only paces how
// often a still-blocked send is reported as slow (sendTimeoutCounter),
// so a wedged downstream is observable without forcing the sender to
// give up on it.
func (o *LocalOutput) Send(ctx context.Context, msg Message) error {
	select {
	case <-o.closed:
		return ErrChannelClosed
	default:
	}

	select {
	case o.ch <- msg:
		return nil
	default:
	}

	timer := time.NewTimer(o.sendTimeout)
	defer timer.Stop()

	for {
		select {
		case o.ch <- msg:
			return nil
		case <-o.closed:
			return ErrChannelClosed
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if o.sendTimeoutCounter != nil {
				o.sendTimeoutCounter.Inc()
			}
			timer.Reset(o.sendTimeout)
		}
	}
}

// Close marks the output closed; a subsequent Send returns
// ErrChannelClosed. Close is idempotent.
func (o *LocalOutput) Close() error {
	select {
	case o.closeOnce <- struct{}{}:
		close(o.closed)
		close(o.ch)
	default:
	}
	return nil
}
