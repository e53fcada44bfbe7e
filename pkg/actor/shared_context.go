// Package actor implements the cooperative, goroutine-per-actor
// scheduling model of spec.md §5: one logical task per actor, pulling
// Message values from an input channel and handing each to a
// DispatchExecutor, suspending only at channel send/receive.
package actor

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cascadedb/cascade/pkg/stream"
	"github.com/cascadedb/cascade/pkg/stream/metrics"
)

// SharedContext is the process-wide registry of local channels between
// actors in the same process (spec.md §5). It is read-mostly; channel
// creation happens under a lock and only at actor setup or mutation
// apply time, grounded on the teacher's watcher.ClusterStore /
// endpointStreamDispatcher pattern of a mutex-guarded map mutated only
// at (de)registration, never across a suspension point.
type SharedContext struct {
	mu          sync.Mutex
	capacity    int
	sendTimeout time.Duration
	metrics     *metrics.Set
	channels    map[stream.ActorID]*stream.LocalOutput
}

// NewSharedContext creates a registry that lazily allocates a bounded
// LocalOutput (capacity items, sendTimeout as its slow-send reporting
// interval, not a deadline) the first time any
// dispatcher asks to resolve a given downstream actor id.
func NewSharedContext(capacity int, sendTimeout time.Duration, m *metrics.Set) *SharedContext {
	return &SharedContext{
		capacity:    capacity,
		sendTimeout: sendTimeout,
		metrics:     m,
		channels:    make(map[stream.ActorID]*stream.LocalOutput),
	}
}

// ResolveOutput implements executor.OutputResolver: it returns the
// LocalOutput addressed to downstream, creating it on first reference
// (spec.md §9: "the shared context holds only weak references to
// channels, resolved on demand").
func (c *SharedContext) ResolveOutput(downstream stream.ActorID) stream.Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	if out, ok := c.channels[downstream]; ok {
		return out
	}
	var counter prometheus.Counter
	if c.metrics != nil {
		counter = c.metrics.SendTimeoutCounter(downstream)
	}
	out := stream.NewLocalOutput(downstream, c.capacity, c.sendTimeout, counter)
	c.channels[downstream] = out
	return out
}

// InputFor returns the receive side of downstream's LocalOutput: the
// channel the actor with id downstream reads its own input stream from.
func (c *SharedContext) InputFor(downstream stream.ActorID) <-chan stream.Message {
	out := c.ResolveOutput(downstream).(*stream.LocalOutput)
	return out.Recv()
}

// ActorCount reports how many local actor channels have been resolved so
// far, exposed read-only for the admin server's /ready endpoint.
func (c *SharedContext) ActorCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.channels)
}
