package stream

import "testing"

func TestHashMapping_LookupReturnsOwner(t *testing.T) {
	m := NewHashMapping(16, 5)
	for i := 0; i < 16; i++ {
		if got := m.Lookup(VirtualNode(i)); got != 5 {
			t.Fatalf("Lookup(%d) = %d, want 5", i, got)
		}
	}
}

func TestHashMapping_RLERoundTrip(t *testing.T) {
	pairs := []RLEPair{
		{ActorID: 1, Count: 4},
		{ActorID: 2, Count: 3},
		{ActorID: 1, Count: 1},
	}
	m, err := HashMappingFromRLE(pairs)
	if err != nil {
		t.Fatalf("HashMappingFromRLE: %v", err)
	}
	if m.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", m.Len())
	}
	want := []ActorID{1, 1, 1, 1, 2, 2, 2, 1}
	for i, w := range want {
		if got := m.Lookup(VirtualNode(i)); got != w {
			t.Errorf("Lookup(%d) = %d, want %d", i, got, w)
		}
	}

	got := m.ToRLE()
	if len(got) != len(pairs) {
		t.Fatalf("ToRLE() returned %d pairs, want %d", len(got), len(pairs))
	}
	for i, p := range pairs {
		if got[i] != p {
			t.Errorf("ToRLE()[%d] = %+v, want %+v", i, got[i], p)
		}
	}
}

func TestHashMappingFromRLE_EmptyIsError(t *testing.T) {
	if _, err := HashMappingFromRLE(nil); err == nil {
		t.Fatal("expected an error decoding an empty RLE mapping")
	}
}

func TestHashMapping_Actors(t *testing.T) {
	m, err := HashMappingFromRLE([]RLEPair{{ActorID: 1, Count: 2}, {ActorID: 2, Count: 2}})
	if err != nil {
		t.Fatalf("HashMappingFromRLE: %v", err)
	}
	actors := m.Actors()
	if len(actors) != 2 {
		t.Fatalf("Actors() = %v, want 2 distinct actors", actors)
	}
	if _, ok := actors[1]; !ok {
		t.Error("expected actor 1 present")
	}
	if _, ok := actors[2]; !ok {
		t.Error("expected actor 2 present")
	}
}

func TestVNodeOf_Deterministic(t *testing.T) {
	keys := []any{int64(42), "abc"}
	a := VNodeOf(keys, VirtualNodeCount)
	b := VNodeOf(keys, VirtualNodeCount)
	if a != b {
		t.Fatalf("VNodeOf is not deterministic: %d != %d", a, b)
	}
	if int(a) >= VirtualNodeCount {
		t.Fatalf("VNodeOf returned %d, out of range [0, %d)", a, VirtualNodeCount)
	}
}

func TestVNodeOf_DifferentKeysUsuallyDiffer(t *testing.T) {
	v1 := VNodeOf([]any{int64(1)}, VirtualNodeCount)
	v2 := VNodeOf([]any{int64(2)}, VirtualNodeCount)
	if v1 == v2 {
		// Not impossible with 256 buckets, but if it happens the test
		// picks a different pair rather than asserting a coincidence.
		v2b := VNodeOf([]any{int64(3)}, VirtualNodeCount)
		if v1 == v2b {
			t.Skip("coincidental vnode collision across all sampled keys")
		}
	}
}

func TestHashMapping_GobRoundTrip(t *testing.T) {
	orig, err := HashMappingFromRLE([]RLEPair{{ActorID: 1, Count: 3}, {ActorID: 2, Count: 5}})
	if err != nil {
		t.Fatalf("HashMappingFromRLE: %v", err)
	}
	data, err := orig.GobEncode()
	if err != nil {
		t.Fatalf("GobEncode: %v", err)
	}
	var decoded HashMapping
	if err := decoded.GobDecode(data); err != nil {
		t.Fatalf("GobDecode: %v", err)
	}
	if decoded.Len() != orig.Len() {
		t.Fatalf("decoded Len() = %d, want %d", decoded.Len(), orig.Len())
	}
	for i := 0; i < orig.Len(); i++ {
		if decoded.Lookup(VirtualNode(i)) != orig.Lookup(VirtualNode(i)) {
			t.Fatalf("decoded mapping diverges at vnode %d", i)
		}
	}
}
