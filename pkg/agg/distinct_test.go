package agg

import "testing"

func TestBuildDistinctDedupTable_Layout(t *testing.T) {
	groupKeys := []Column{{Name: "g", Type: "int64"}}
	distinctCol := Column{Name: "d", Type: "string"}
	tbl := BuildDistinctDedupTable(groupKeys, distinctCol, []int{0, 2})

	// group key + distinct column + 2 per-call counters.
	if len(tbl.Columns) != 4 {
		t.Fatalf("Columns = %+v, want 4 columns", tbl.Columns)
	}
	if tbl.Columns[1] != distinctCol {
		t.Errorf("Columns[1] = %+v, want the distinct column %+v", tbl.Columns[1], distinctCol)
	}
	idx0, ok := tbl.CallCounterColumn[0]
	if !ok || tbl.Columns[idx0].Name != "count_for_call_0" {
		t.Errorf("call 0's counter column = %+v", tbl.Columns[idx0])
	}
	idx2, ok := tbl.CallCounterColumn[2]
	if !ok || tbl.Columns[idx2].Name != "count_for_call_2" {
		t.Errorf("call 2's counter column = %+v", tbl.Columns[idx2])
	}
	if idx0 == idx2 {
		t.Error("distinct calls sharing a dedup table must get distinct counter columns")
	}
}

func TestBuildDistinctDedupTable_NoCalls(t *testing.T) {
	tbl := BuildDistinctDedupTable(nil, Column{Name: "d"}, nil)
	if len(tbl.Columns) != 1 {
		t.Fatalf("Columns = %+v, want just the distinct column", tbl.Columns)
	}
}
