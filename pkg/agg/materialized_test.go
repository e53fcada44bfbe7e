package agg

import "testing"

func groupKeyCols() []Column { return []Column{{Name: "g", Type: "int64"}} }

func TestBuildMaterializedInputStateTable_Min(t *testing.T) {
	call := AggCall{Kind: Min, Inputs: []int{1}}
	tbl, err := BuildMaterializedInputStateTable(call, groupKeyCols(), []Column{{Name: "v", Type: "int64"}}, nil, nil)
	if err != nil {
		t.Fatalf("BuildMaterializedInputStateTable: %v", err)
	}
	if len(tbl.SortKeys) != 1 || tbl.SortKeys[0].Desc {
		t.Fatalf("Min sort keys = %+v, want ascending on column 0", tbl.SortKeys)
	}
	if len(tbl.Columns) != 2 {
		t.Fatalf("Columns = %+v, want group key + sort key", tbl.Columns)
	}
}

func TestBuildMaterializedInputStateTable_MaxIsDescending(t *testing.T) {
	call := AggCall{Kind: Max, Inputs: []int{1}}
	tbl, err := BuildMaterializedInputStateTable(call, groupKeyCols(), []Column{{Name: "v", Type: "int64"}}, nil, nil)
	if err != nil {
		t.Fatalf("BuildMaterializedInputStateTable: %v", err)
	}
	if !tbl.SortKeys[0].Desc {
		t.Error("Max must sort descending")
	}
}

func TestBuildMaterializedInputStateTable_LastValueReversesOrderBy(t *testing.T) {
	call := AggCall{Kind: LastValue, OrderBy: []OrderKey{{ColIdx: 0, Desc: false}}}
	tbl, err := BuildMaterializedInputStateTable(call, groupKeyCols(), []Column{{Name: "t", Type: "int64"}}, nil, nil)
	if err != nil {
		t.Fatalf("BuildMaterializedInputStateTable: %v", err)
	}
	if !tbl.SortKeys[0].Desc {
		t.Error("LastValue must reverse the ORDER BY direction")
	}
}

func TestBuildMaterializedInputStateTable_FirstValueNeedsOrderBy(t *testing.T) {
	call := AggCall{Kind: FirstValue}
	if _, err := BuildMaterializedInputStateTable(call, groupKeyCols(), nil, nil, nil); err == nil {
		t.Fatal("expected an error building FirstValue's table without an ORDER BY")
	}
}

func TestBuildMaterializedInputStateTable_NonMaterializableKindErrors(t *testing.T) {
	call := AggCall{Kind: Count}
	if _, err := BuildMaterializedInputStateTable(call, groupKeyCols(), nil, nil, nil); err == nil {
		t.Fatal("expected an error building a materialized-input table for Count")
	}
}

func TestExtraKeysFor_DistinctUsesDistinctColumn(t *testing.T) {
	col := Column{Name: "d", Type: "string"}
	keys, err := ExtraKeysFor(AggCall{Distinct: true}, &col, []Column{{Name: "pk"}})
	if err != nil {
		t.Fatalf("ExtraKeysFor: %v", err)
	}
	if len(keys) != 1 || keys[0] != col {
		t.Fatalf("ExtraKeysFor(distinct) = %+v, want [%+v]", keys, col)
	}
}

func TestExtraKeysFor_DistinctWithoutColumnErrors(t *testing.T) {
	if _, err := ExtraKeysFor(AggCall{Distinct: true}, nil, nil); err == nil {
		t.Fatal("expected an error for a distinct call with no distinct column supplied")
	}
}

func TestExtraKeysFor_NonDistinctUsesUpstreamPK(t *testing.T) {
	pk := []Column{{Name: "pk", Type: "int64"}}
	keys, err := ExtraKeysFor(AggCall{}, nil, pk)
	if err != nil {
		t.Fatalf("ExtraKeysFor: %v", err)
	}
	if len(keys) != 1 || keys[0] != pk[0] {
		t.Fatalf("ExtraKeysFor(non-distinct) = %+v, want %+v", keys, pk)
	}
}
