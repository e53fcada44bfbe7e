package executor

import (
	"fmt"

	"github.com/cascadedb/cascade/pkg/stream"
	"github.com/cascadedb/cascade/pkg/stream/dispatcher"
)

// mappingSetter is implemented only by *dispatcher.HashDispatcher. A
// Hash dispatcher's mapping is replaced wholesale in the post phase,
// after the barrier carrying the old mapping has already gone out
// (spec.md §4.4).
type mappingSetter interface {
	SetHashMapping(*stream.HashMapping)
}

// tableNameSetter is implemented only by *dispatcher.CdcTableNameDispatcher.
type tableNameSetter interface {
	SetTableName(stream.ActorID, string)
}

// preMutateDispatchers applies Add and the adding portion of Update:
// new dispatchers are created and newly-added outputs are attached,
// before the barrier goes out (spec.md §4.4, §4.5).
func (e *Executor) preMutateDispatchers(m *stream.Mutation) {
	if m == nil {
		return
	}
	if m.Add != nil {
		if specs, ok := m.Add.Adds[e.actorID]; ok {
			e.createDispatchers(specs)
		}
	}
	if m.Update != nil {
		if specs, ok := m.Update.ActorNewDispatchers[e.actorID]; ok {
			e.createDispatchers(specs)
		}
		if updates, ok := m.Update.Dispatchers[e.actorID]; ok {
			for _, u := range updates {
				d, found := e.dispatchers[u.DispatcherID]
				if !found {
					stream.PanicMalformedMutation(fmt.Sprintf("update references unknown dispatcher id %d on actor %d", u.DispatcherID, e.actorID))
				}
				if len(u.AddedDownstreamActorIDs) > 0 {
					d.AddOutputs(e.resolveOutputs(u.AddedDownstreamActorIDs)...)
				}
			}
		}
	}
}

// postMutateDispatchers applies Stop, DroppedActors, and the
// removing/remap portion of Update: outputs are dropped and hash
// mappings are swapped in, after the barrier has already gone out with
// the old configuration (spec.md §4.4, §4.5). Stop and DroppedActors
// are both swept across every dispatcher the actor owns, not just the
// ones named in Update.Dispatchers[actorID] — an actor can be a
// downstream output of a dispatcher without that dispatcher ever
// appearing in its own per-dispatcher update list, so only a
// whole-dispatcher-set sweep catches every output referencing a
// removed actor (mirrors post_mutate_dispatchers's dropped_actors sweep
// in the original executor). Matches the original's guard against an
// actor sweeping its own outputs when it is itself among the
// actors being torn down: harmless either way since the actor is
// exiting, but kept for parity.
func (e *Executor) postMutateDispatchers(m *stream.Mutation) {
	if m == nil {
		return
	}
	if m.Stop != nil && len(m.Stop.ActorIDs) > 0 {
		if _, selfStopped := m.Stop.ActorIDs[e.actorID]; !selfStopped {
			for _, d := range e.dispatchers {
				d.RemoveOutputs(m.Stop.ActorIDs)
			}
		}
	}
	if m.Update != nil {
		if _, selfDropped := m.Update.DroppedActors[e.actorID]; len(m.Update.DroppedActors) > 0 && !selfDropped {
			for _, d := range e.dispatchers {
				d.RemoveOutputs(m.Update.DroppedActors)
			}
		}
		if updates, ok := m.Update.Dispatchers[e.actorID]; ok {
			for _, u := range updates {
				d, found := e.dispatchers[u.DispatcherID]
				if !found {
					stream.PanicMalformedMutation(fmt.Sprintf("update references unknown dispatcher id %d on actor %d", u.DispatcherID, e.actorID))
				}
				if len(u.RemovedDownstreamActorIDs) > 0 {
					removed := make(map[stream.ActorID]struct{}, len(u.RemovedDownstreamActorIDs))
					for _, a := range u.RemovedDownstreamActorIDs {
						removed[a] = struct{}{}
					}
					d.RemoveOutputs(removed)
				}
				if u.HashMapping != nil {
					setter, ok := d.(mappingSetter)
					if !ok {
						stream.PanicMalformedMutation(fmt.Sprintf("dispatcher %d on actor %d received hash_mapping but is not a Hash dispatcher", u.DispatcherID, e.actorID))
					}
					setter.SetHashMapping(u.HashMapping)
				}
			}
		}
	}
}

func (e *Executor) resolveOutputs(actorIDs []stream.ActorID) []stream.Output {
	outs := make([]stream.Output, 0, len(actorIDs))
	for _, a := range actorIDs {
		outs = append(outs, e.resolver.ResolveOutput(a))
	}
	return outs
}

// createDispatchers instantiates dispatchers from wire specs and adds
// them to the executor, panicking on a duplicate dispatcher id (spec.md
// §7: "duplicate dispatcher id in Add" is a coordinator-bug assertion,
// and spec.md §4.4: "every new dispatcher id added must be globally
// unique among this actor's dispatchers").
func (e *Executor) createDispatchers(specs []stream.DispatcherSpec) {
	for _, spec := range specs {
		if _, exists := e.dispatchers[spec.ID]; exists {
			stream.PanicMalformedMutation(fmt.Sprintf("duplicate dispatcher id %d on actor %d", spec.ID, e.actorID))
		}
		d := newDispatcherFromSpec(spec, e.resolveOutputs(spec.DownstreamActorIDs))
		e.dispatchers[spec.ID] = d
		e.order = append(e.order, spec.ID)
	}
}

// newDispatcherFromSpec builds the concrete dispatcher variant named by
// spec.Kind. KindNoShuffle collapses to Simple (spec.md §6).
func newDispatcherFromSpec(spec stream.DispatcherSpec, outs []stream.Output) dispatcher.Dispatcher {
	switch spec.Kind {
	case stream.KindHash:
		return dispatcher.NewHashDispatcher(spec.ID, spec.DistKeyIndices, spec.HashMapping, spec.OutputIndices, outs)
	case stream.KindBroadcast:
		return dispatcher.NewBroadcastDispatcher(spec.ID, spec.OutputIndices, outs)
	case stream.KindSimple, stream.KindNoShuffle:
		return dispatcher.NewSimpleDispatcher(spec.ID, spec.OutputIndices, outs)
	case stream.KindRoundRobin:
		return dispatcher.NewRoundRobinDispatcher(spec.ID, spec.OutputIndices, outs)
	case stream.KindCdcTableName:
		names := make(map[stream.ActorID]string, len(spec.DownstreamActorIDs))
		d := dispatcher.NewCdcTableNameDispatcher(spec.ID, spec.DistKeyIndices[0], names, spec.OutputIndices, outs)
		if spec.DownstreamTableName != "" {
			var setter tableNameSetter = d
			for _, a := range spec.DownstreamActorIDs {
				setter.SetTableName(a, spec.DownstreamTableName)
			}
		}
		return d
	default:
		stream.PanicMalformedMutation(fmt.Sprintf("unknown dispatcher kind %v", spec.Kind))
		return nil
	}
}
