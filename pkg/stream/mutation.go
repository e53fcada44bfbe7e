package stream

// DispatcherKind selects a dispatcher variant (spec.md §4.3).
type DispatcherKind uint8

const (
	// KindHash partitions rows by a stable hash over key columns.
	KindHash DispatcherKind = iota
	// KindBroadcast sends every row to every output.
	KindBroadcast
	// KindSimple has exactly one output in steady state.
	KindSimple
	// KindRoundRobin cycles through outputs per chunk.
	KindRoundRobin
	// KindCdcTableName filters rows by a source-table-name column.
	KindCdcTableName
	// KindNoShuffle collapses to KindSimple at construction time
	// (spec.md §6: "NoShuffle collapses to Simple at runtime").
	KindNoShuffle
)

func (k DispatcherKind) String() string {
	switch k {
	case KindHash:
		return "Hash"
	case KindBroadcast:
		return "Broadcast"
	case KindSimple:
		return "Simple"
	case KindRoundRobin:
		return "RoundRobin"
	case KindCdcTableName:
		return "CdcTableName"
	case KindNoShuffle:
		return "NoShuffle"
	default:
		return "Unknown"
	}
}

// DispatcherSpec is the wire-level description of a dispatcher to create,
// carried inside Add.Adds / Update.ActorNewDispatchers (spec.md §6).
type DispatcherSpec struct {
	Kind                DispatcherKind
	ID                   DispatcherID
	DownstreamActorIDs   []ActorID
	DistKeyIndices       []int
	OutputIndices        []int
	HashMapping          *HashMapping // required for KindHash
	DownstreamTableName  string       // required for KindCdcTableName
}

// DispatcherUpdate describes one dispatcher's change of outputs and/or
// mapping, carried inside Update.Dispatchers.
type DispatcherUpdate struct {
	DispatcherID            DispatcherID
	AddedDownstreamActorIDs []ActorID
	RemovedDownstreamActorIDs []ActorID
	HashMapping             *HashMapping // nil: mapping unchanged
}

// Add introduces new dispatchers to the listed actors.
type Add struct {
	Adds map[ActorID][]DispatcherSpec
}

// Update modifies existing dispatchers' outputs and re-partitions.
type Update struct {
	// Dispatchers maps actor -> per-dispatcher output/mapping changes.
	Dispatchers map[ActorID][]DispatcherUpdate
	// ActorNewDispatchers carries brand-new dispatcher specs per actor,
	// applied in the same pre-phase as Add.
	ActorNewDispatchers map[ActorID][]DispatcherSpec
	// DroppedActors lists actors that will disappear after this barrier;
	// dispatchers still deliver this final barrier to them.
	DroppedActors map[ActorID]struct{}
}

// Stop tears down outputs to the listed actors.
type Stop struct {
	ActorIDs map[ActorID]struct{}
}

// Mutation is the in-band reconfiguration command attached to a Barrier.
// Exactly one of Add, Update, Stop is non-nil.
type Mutation struct {
	Add    *Add
	Update *Update
	Stop   *Stop
}
