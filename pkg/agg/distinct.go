package agg

import "strconv"

// DistinctDedupTable is shared by all DISTINCT calls over the same
// first argument (one table per distinct column, not per call, spec.md
// §4.6, §9). Schema: group_key ∥ distinct_key ∥ count_for_call_i, ….
// A nonzero counter for a call means the distinct value currently
// contributes to that call's result; zero means retraction is pending.
type DistinctDedupTable struct {
	Columns []Column
	// CallCounterColumn maps a call's identity (its index within the
	// owning operator's call list) to the column position of its
	// per-call counter.
	CallCounterColumn map[int]int
}

// BuildDistinctDedupTable lays out the dedup table for one distinct
// column shared across callIDs (the distinct calls whose first argument
// is that column).
func BuildDistinctDedupTable(groupKeys []Column, distinctColumn Column, callIDs []int) *DistinctDedupTable {
	cols := make([]Column, 0, len(groupKeys)+1+len(callIDs))
	cols = append(cols, groupKeys...)
	cols = append(cols, distinctColumn)

	counterIdx := make(map[int]int, len(callIDs))
	for _, id := range callIDs {
		counterIdx[id] = len(cols)
		cols = append(cols, Column{Name: counterColumnName(id), Type: "int64"})
	}

	return &DistinctDedupTable{Columns: cols, CallCounterColumn: counterIdx}
}

func counterColumnName(callID int) string {
	return "count_for_call_" + strconv.Itoa(callID)
}
