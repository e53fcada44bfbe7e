// Package stream implements the streaming dispatch core: the message
// alphabet (Chunk/Barrier/Watermark), the virtual-node hash mapping, the
// Output sink contract and the in-band mutation protocol.
package stream

import "fmt"

// ActorID identifies one actor: a cooperative task owning operator state.
type ActorID uint32

// FragmentID identifies a horizontal group of actors running the same
// operator over different partitions.
type FragmentID uint32

// DispatcherID identifies one dispatcher belonging to an actor. By
// contract DispatcherID == the downstream FragmentID it was created for.
type DispatcherID uint32

// VirtualNode is the unit of partition assignment, in [0, VirtualNodeCount).
type VirtualNode uint32

// VirtualNodeCount is the compile-time constant V from spec.md §3.
const VirtualNodeCount = 256

func (a ActorID) String() string      { return fmt.Sprintf("actor(%d)", uint32(a)) }
func (f FragmentID) String() string   { return fmt.Sprintf("fragment(%d)", uint32(f)) }
func (d DispatcherID) String() string { return fmt.Sprintf("dispatcher(%d)", uint32(d)) }
