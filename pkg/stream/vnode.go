package stream

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"hash/crc32"
)

// HashMapping is the authoritative partitioning function: a fixed-size
// array from virtual node to the actor currently owning it (spec.md §3,
// §4.2). It is replaced, never mutated in place, so no read lock is
// needed in the hot path (spec.md §9).
type HashMapping struct {
	table []ActorID
}

// NewHashMapping builds a mapping of the given length with every vnode
// initially owned by owner.
func NewHashMapping(length int, owner ActorID) *HashMapping {
	t := make([]ActorID, length)
	for i := range t {
		t[i] = owner
	}
	return &HashMapping{table: t}
}

// Len returns the number of virtual nodes covered.
func (h *HashMapping) Len() int { return len(h.table) }

// Lookup returns the actor owning vnode, in O(1).
func (h *HashMapping) Lookup(vnode VirtualNode) ActorID {
	return h.table[int(vnode)]
}

// Actors returns the distinct set of actors present in the mapping.
func (h *HashMapping) Actors() map[ActorID]struct{} {
	out := make(map[ActorID]struct{})
	for _, a := range h.table {
		out[a] = struct{}{}
	}
	return out
}

// RLEPair is one (actor, run-length) pair in the compact wire form.
type RLEPair struct {
	ActorID ActorID
	Count   uint32
}

// HashMappingFromRLE decodes the compact protobuf run-length-encoded
// form into a full lookup table (spec.md §4.2: "construction from a
// compact protobuf form ... is an explicit operation").
func HashMappingFromRLE(pairs []RLEPair) (*HashMapping, error) {
	var total uint32
	for _, p := range pairs {
		total += p.Count
	}
	table := make([]ActorID, 0, total)
	for _, p := range pairs {
		for i := uint32(0); i < p.Count; i++ {
			table = append(table, p.ActorID)
		}
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: empty hash mapping", ErrHashMappingDecode)
	}
	return &HashMapping{table: table}, nil
}

// ToRLE encodes the mapping back into run-length pairs, the inverse of
// HashMappingFromRLE.
func (h *HashMapping) ToRLE() []RLEPair {
	if len(h.table) == 0 {
		return nil
	}
	var out []RLEPair
	cur := h.table[0]
	count := uint32(1)
	for _, a := range h.table[1:] {
		if a == cur {
			count++
			continue
		}
		out = append(out, RLEPair{ActorID: cur, Count: count})
		cur = a
		count = 1
	}
	out = append(out, RLEPair{ActorID: cur, Count: count})
	return out
}

// GobEncode implements gob.GobEncoder via the same compact run-length
// form as ToRLE, so a HashMapping embedded in a Mutation survives the
// RemoteOutput wire encoding (message.go/output_remote.go) without its
// unexported table field being silently dropped.
func (h *HashMapping) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(h.ToRLE()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder, the inverse of GobEncode.
func (h *HashMapping) GobDecode(data []byte) error {
	var pairs []RLEPair
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&pairs); err != nil {
		return err
	}
	decoded, err := HashMappingFromRLE(pairs)
	if err != nil {
		return err
	}
	*h = *decoded
	return nil
}

// VNodeOf hashes the key-column projection of one row to a virtual node,
// via CRC32 over the little-endian byte representation of each key
// (spec.md §8, scenario S6). vnodeCount is normally VirtualNodeCount.
func VNodeOf(keys []any, vnodeCount int) VirtualNode {
	h := crc32.NewIEEE()
	for _, k := range keys {
		_, _ = h.Write(encodeKey(k))
	}
	return VirtualNode(h.Sum32() % uint32(vnodeCount))
}

// encodeKey produces a stable little-endian byte encoding for the hash
// input. Only the integer/string forms needed by the dispatch hot path
// are supported; richer typed columns are a binder/storage concern out
// of scope here.
func encodeKey(k any) []byte {
	switch v := k.(type) {
	case int32:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(v))
		return buf
	case uint32:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, v)
		return buf
	case int:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(int64(v)))
		return buf
	case int64:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(v))
		return buf
	case uint64:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, v)
		return buf
	case string:
		return []byte(v)
	case []byte:
		return v
	default:
		return []byte(fmt.Sprintf("%v", v))
	}
}
