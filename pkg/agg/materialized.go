package agg

import "fmt"

// MaterializedInputStateTable is the per-call table backing a call that
// needs retraction-safe computation over more than a scalar: Min, Max,
// FirstValue, LastValue, StringAgg, ArrayAgg, JsonbAgg, JsonbObjectAgg
// (spec.md §4.6). Schema: group_key ∥ sort_keys ∥ extra_keys ∥
// include_keys.
type MaterializedInputStateTable struct {
	Columns  []Column
	SortKeys []OrderKey // ordering over the sort_keys section, spec.md §4.6
}

// BuildMaterializedInputStateTable lays out the table for one call. The
// ordering follows spec.md §4.6 exactly:
//   - Min: ascending on input[0].
//   - Max: descending on input[0].
//   - order-sensitive aggregates: the call's ORDER BY, direction reversed
//     for LastValue.
//
// extraKeys is the distinct column (if call.Distinct) or the upstream
// primary key otherwise — callers supply it because it depends on
// upstream schema this package doesn't own. includeKeys are additional
// projected columns the call's output needs (e.g. the aggregated value
// itself for StringAgg/ArrayAgg).
func BuildMaterializedInputStateTable(
	call AggCall,
	groupKeys []Column,
	sortKeyColumns []Column,
	extraKeys []Column,
	includeKeys []Column,
) (*MaterializedInputStateTable, error) {
	if !isMaterializableKind(call.Kind) {
		return nil, fmt.Errorf("agg: %s does not require a materialized-input state table", call.Kind)
	}

	sortKeys, err := sortKeysFor(call, len(groupKeys))
	if err != nil {
		return nil, err
	}

	var cols []Column
	cols = append(cols, groupKeys...)
	cols = append(cols, sortKeyColumns...)
	cols = append(cols, extraKeys...)
	cols = append(cols, includeKeys...)

	return &MaterializedInputStateTable{Columns: cols, SortKeys: sortKeys}, nil
}

// sortKeysFor returns the ordering directives over the sort_keys
// section, with ColIdx expressed relative to that section (0-based,
// i.e. not yet offset by groupKeyCount) so callers can place it
// consistently once the final column layout is known.
func sortKeysFor(call AggCall, _ int) ([]OrderKey, error) {
	switch call.Kind {
	case Min:
		return []OrderKey{{ColIdx: 0, Desc: false}}, nil
	case Max:
		return []OrderKey{{ColIdx: 0, Desc: true}}, nil
	case FirstValue, LastValue, StringAgg, ArrayAgg, JsonbAgg, JsonbObjectAgg:
		if len(call.OrderBy) == 0 {
			return nil, fmt.Errorf("agg: %s requires an ORDER BY to build materialized-input ordering", call.Kind)
		}
		keys := make([]OrderKey, len(call.OrderBy))
		copy(keys, call.OrderBy)
		if call.Kind == LastValue {
			for i, k := range keys {
				keys[i] = k.Reversed()
			}
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("agg: %s does not require a materialized-input state table", call.Kind)
	}
}

// ExtraKeysFor returns the extra_keys section for a call: the distinct
// column if the call is DISTINCT, otherwise the upstream primary key
// columns (spec.md §4.6: "needed to guarantee row uniqueness and thus
// retractability").
func ExtraKeysFor(call AggCall, distinctColumn *Column, upstreamPK []Column) ([]Column, error) {
	if call.Distinct {
		if distinctColumn == nil {
			return nil, fmt.Errorf("agg: distinct call missing its distinct column")
		}
		return []Column{*distinctColumn}, nil
	}
	return upstreamPK, nil
}
