package agg

import "fmt"

// IntermediateResultTable is the one-per-operator table holding one row
// per distinct group key: group_key ∥ per-call state columns (spec.md
// §4.6).
type IntermediateResultTable struct {
	Columns    []Column
	PrimaryKey []int // ordered group-key column positions (window column first, if present)
	DistKey    []int // table column positions, rewritten from the input dist key
}

// BuildIntermediateResultTable lays out the intermediate result table.
// windowCol, if non-nil, is placed first in both Columns and PrimaryKey
// (spec.md §4.6: "with an optional window column placed first").
// callStateColumns holds, per call, the state columns that call
// contributes (a single column for value-state calls; callers build
// this from NeedsMaterializedInputState/IsSingleValueState before
// calling in). inputDistKey names input-row column indices; inputToTable
// maps an input column index to its position in the resulting table,
// the "input -> table index mapping" spec.md §4.6 requires.
func BuildIntermediateResultTable(
	windowCol *Column,
	groupKeys []Column,
	callStateColumns [][]Column,
	inputDistKey []int,
	inputToTable map[int]int,
) (*IntermediateResultTable, error) {
	var cols []Column
	var pk []int

	if windowCol != nil {
		cols = append(cols, *windowCol)
		pk = append(pk, 0)
	}
	base := len(cols)
	cols = append(cols, groupKeys...)
	for i := range groupKeys {
		pk = append(pk, base+i)
	}
	for _, callCols := range callStateColumns {
		cols = append(cols, callCols...)
	}

	distKey := make([]int, 0, len(inputDistKey))
	for _, inIdx := range inputDistKey {
		tableIdx, ok := inputToTable[inIdx]
		if !ok {
			return nil, fmt.Errorf("agg: input dist-key column %d has no table mapping", inIdx)
		}
		distKey = append(distKey, tableIdx)
	}

	return &IntermediateResultTable{Columns: cols, PrimaryKey: pk, DistKey: distKey}, nil
}
