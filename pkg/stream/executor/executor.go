// Package executor implements the per-actor dispatch executor: the
// owner of an actor's dispatcher list that consumes the upstream
// message stream and applies mutations around each barrier (spec.md
// §4.4).
package executor

import (
	"context"

	logging "github.com/sirupsen/logrus"

	"github.com/cascadedb/cascade/pkg/stream"
	"github.com/cascadedb/cascade/pkg/stream/dispatcher"
	"github.com/cascadedb/cascade/pkg/stream/metrics"
)

// OutputResolver resolves a downstream actor id to the Output that
// addresses it (a local bounded channel or a remote transport). It is
// how a dispatcher gains new outputs when a mutation adds downstream
// actors, grounded on the teacher's SharedContext-style "resolve a
// channel handle on demand" indirection (spec.md §9: "the shared
// context holds only weak references to channels, resolved on demand").
type OutputResolver interface {
	ResolveOutput(downstream stream.ActorID) stream.Output
}

// Executor owns one actor's dispatcher list and drives the
// chunk/watermark/barrier protocol of spec.md §4.4.
type Executor struct {
	actorID    stream.ActorID
	fragmentID stream.FragmentID
	resolver   OutputResolver
	metrics    *metrics.Set
	log        *logging.Entry

	order       []stream.DispatcherID
	dispatchers map[stream.DispatcherID]dispatcher.Dispatcher
}

// New constructs an Executor for one actor, seeded with its initial
// dispatcher set (the dispatchers created when the actor itself was
// initialized, before any mutation is ever applied).
func New(actorID stream.ActorID, fragmentID stream.FragmentID, resolver OutputResolver, m *metrics.Set, log *logging.Entry, initial []dispatcher.Dispatcher) *Executor {
	e := &Executor{
		actorID:     actorID,
		fragmentID:  fragmentID,
		resolver:    resolver,
		metrics:     m,
		log:         log.WithField("actor", actorID).WithField("fragment", fragmentID),
		dispatchers: make(map[stream.DispatcherID]dispatcher.Dispatcher, len(initial)),
	}
	for _, d := range initial {
		e.dispatchers[d.ID()] = d
		e.order = append(e.order, d.ID())
	}
	return e
}

// Dispatchers returns the current dispatcher set in stable order, for
// inspection and tests.
func (e *Executor) Dispatchers() []dispatcher.Dispatcher {
	out := make([]dispatcher.Dispatcher, 0, len(e.order))
	for _, id := range e.order {
		if d, ok := e.dispatchers[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Dispatch routes one message per the table in spec.md §4.4.
func (e *Executor) Dispatch(ctx context.Context, msg stream.Message) error {
	switch m := msg.(type) {
	case *stream.Chunk:
		return e.dispatchChunk(ctx, m)
	case *stream.Watermark:
		return e.dispatchWatermark(ctx, m)
	case *stream.Barrier:
		return e.dispatchBarrierMsg(ctx, m)
	default:
		stream.PanicStateInconsistency("executor: unknown message type")
		return nil
	}
}

func (e *Executor) dispatchChunk(ctx context.Context, c *stream.Chunk) error {
	var firstErr error
	for _, id := range e.order {
		d, ok := e.dispatchers[id]
		if !ok {
			continue
		}
		timer := e.metrics.StartOutputBlocking(e.actorID, e.fragmentID, id)
		err := d.DispatchData(ctx, c)
		timer.ObserveDuration()
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *Executor) dispatchWatermark(ctx context.Context, wm *stream.Watermark) error {
	var firstErr error
	for _, id := range e.order {
		d, ok := e.dispatchers[id]
		if !ok {
			continue
		}
		if err := d.DispatchWatermark(ctx, wm); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// dispatchBarrierMsg is the four-step barrier protocol of spec.md §4.4:
// pre-mutate, broadcast the barrier, post-mutate, then sweep empty
// dispatchers. Between two adjacent barriers the dispatcher set and
// output sets are stable (spec.md §4.4 invariant); reconfiguration is
// observable only across this one barrier's handling.
func (e *Executor) dispatchBarrierMsg(ctx context.Context, b *stream.Barrier) error {
	e.preMutateDispatchers(b.Mutation)

	var firstErr error
	for _, id := range e.order {
		d, ok := e.dispatchers[id]
		if !ok {
			continue
		}
		if err := d.DispatchBarrier(ctx, b); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	e.postMutateDispatchers(b.Mutation)
	e.sweepEmptyDispatchers()

	return firstErr
}

// sweepEmptyDispatchers drops every dispatcher with zero outputs after
// a barrier (spec.md §8, invariant 5: "Empty-dispatcher sweep").
func (e *Executor) sweepEmptyDispatchers() {
	kept := e.order[:0]
	for _, id := range e.order {
		d, ok := e.dispatchers[id]
		if !ok {
			continue
		}
		if d.IsEmpty() {
			delete(e.dispatchers, id)
			e.log.WithField("dispatcher", id).Debug("dropping empty dispatcher after barrier")
			continue
		}
		kept = append(kept, id)
	}
	e.order = kept
}
