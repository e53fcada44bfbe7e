package agg

// partialCombineCapable names the aggregate kinds whose partial results
// from independent partitions can be combined into a total result
// (spec.md §4.6: "supports partial->total combine"). Min and Max can,
// although they may need materialized-input state; the order-sensitive
// aggregates cannot: a partial StringAgg/ArrayAgg result loses the row
// identities a later combine would need.
var partialCombineCapable = map[AggKind]bool{
	Count: true,
	Sum:   true,
	Min:   true,
	Max:   true,
}

// distinctSafeKinds names aggregate kinds where a DISTINCT call can
// still be two-phase safe. None of the supported kinds are, so any
// DISTINCT call disqualifies two-phase aggregation; this is the
// conservative reading of spec.md's unresolved "distinct-safe" category
// (see DESIGN.md).
var distinctSafeKinds = map[AggKind]bool{}

// IsTwoPhaseSafe reports whether call may run in the partial phase of a
// two-phase aggregation (spec.md §4.6): its kind must support
// partial->total combine, and it must be order-insensitive (no ORDER
// BY), and either not DISTINCT or of a distinct-safe kind.
func IsTwoPhaseSafe(call AggCall) bool {
	if !partialCombineCapable[call.Kind] {
		return false
	}
	if len(call.OrderBy) > 0 {
		return false
	}
	if call.Distinct && !distinctSafeKinds[call.Kind] {
		return false
	}
	return true
}

// CanTwoPhaseAggregate reports whether every call in calls is two-phase
// safe, the precondition spec.md §4.6 requires before splitting an
// aggregation operator into partial and total phases.
func CanTwoPhaseAggregate(calls []AggCall) bool {
	for _, c := range calls {
		if !IsTwoPhaseSafe(c) {
			return false
		}
	}
	return true
}

// TotalPhaseCall derives the total-phase call from a two-phase-safe
// partial call: its ORDER BY and FILTER are dropped (spec.md §4.6:
// "Partial-phase output becomes the input column of total-phase, with
// ORDER BY and FILTER dropped in the total call"), and it reads the
// single partial-output column at partialOutputCol.
func TotalPhaseCall(partial AggCall, partialOutputCol int) AggCall {
	return AggCall{
		Kind:     partial.Kind,
		Inputs:   []int{partialOutputCol},
		Distinct: partial.Distinct,
	}
}

// CanStatelessLocalAggregate reports whether an aggregation operator can
// skip materializing any state at all (spec.md §4.6: "permitted when
// every call is single-value state or single-value state iff
// append-only AND the upstream is append-only").
func CanStatelessLocalAggregate(calls []AggCall, upstreamAppendOnly bool) bool {
	if !upstreamAppendOnly {
		return false
	}
	for _, c := range calls {
		if IsSingleValueState(c.Kind) || IsSingleValueStateIfAppendOnly(c.Kind) {
			continue
		}
		return false
	}
	return true
}
