// Package agg designs the state tables the streaming aggregation
// operator upstream of the dispatcher keeps, per spec.md §4.6: the
// intermediate result table, the per-call materialized-input state
// tables, and the distinct dedup tables. Persistence itself is
// delegated to the storage engine (out of scope, spec.md §1); this
// package only specifies schema, key ordering and eligibility rules.
package agg

// AggKind names one aggregate function signature.
type AggKind uint8

const (
	Count AggKind = iota
	Sum
	Min
	Max
	FirstValue
	LastValue
	StringAgg
	ArrayAgg
	JsonbAgg
	JsonbObjectAgg
)

func (k AggKind) String() string {
	switch k {
	case Count:
		return "count"
	case Sum:
		return "sum"
	case Min:
		return "min"
	case Max:
		return "max"
	case FirstValue:
		return "first_value"
	case LastValue:
		return "last_value"
	case StringAgg:
		return "string_agg"
	case ArrayAgg:
		return "array_agg"
	case JsonbAgg:
		return "jsonb_agg"
	case JsonbObjectAgg:
		return "jsonb_object_agg"
	default:
		return "unknown"
	}
}

// ColumnType is a placeholder for the binder's real type system, out of
// scope here; only used to label schema columns for readability.
type ColumnType string

// Column is one schema column.
type Column struct {
	Name string
	Type ColumnType
}

// OrderKey is one ORDER BY entry: a column index plus sort direction.
type OrderKey struct {
	ColIdx int
	Desc   bool
}

// Reversed returns the same key with direction flipped, used when
// building a LastValue call's materialized-input ordering (spec.md
// §4.6: "direction reversed for LastValue").
func (k OrderKey) Reversed() OrderKey {
	return OrderKey{ColIdx: k.ColIdx, Desc: !k.Desc}
}

// AggCall is one aggregate function invocation within a GROUP BY.
type AggCall struct {
	Kind       AggKind
	Inputs     []int // input-row column indices this call consumes
	Distinct   bool
	OrderBy    []OrderKey
	Filter     *int // input-row column index of a boolean FILTER predicate, or nil
	DirectArgs []any
}

// NeedsMaterializedInputState reports whether call requires a
// retraction-safe materialized-input state table rather than a scalar
// value state, per spec.md §4.6. Min/Max only need the table when the
// upstream is not append-only; the order-sensitive aggregates always do.
func NeedsMaterializedInputState(kind AggKind, appendOnly bool) bool {
	switch kind {
	case Min, Max:
		return !appendOnly
	case FirstValue, LastValue, StringAgg, ArrayAgg, JsonbAgg, JsonbObjectAgg:
		return true
	default:
		return false
	}
}

// IsSingleValueState reports whether kind's state fits entirely within
// an intermediate-table column, unconditionally (spec.md §4.6: "Value
// state (no table)").
func IsSingleValueState(kind AggKind) bool {
	return kind == Count || kind == Sum
}

// IsSingleValueStateIfAppendOnly reports whether kind needs only value
// state when the upstream happens to be append-only (Min/Max need no
// retraction machinery without deletes).
func IsSingleValueStateIfAppendOnly(kind AggKind) bool {
	return kind == Min || kind == Max
}

// isMaterializableKind reports whether kind can ever be backed by a
// materialized-input state table (independent of whether the current
// stream happens to be append-only — see NeedsMaterializedInputState
// for the context-sensitive eligibility check).
func isMaterializableKind(kind AggKind) bool {
	switch kind {
	case Min, Max, FirstValue, LastValue, StringAgg, ArrayAgg, JsonbAgg, JsonbObjectAgg:
		return true
	default:
		return false
	}
}
