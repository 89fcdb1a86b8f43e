package screener

import "github.com/quantfold/tvscreener/pkg/fields"

// Column represents a screener field used in Select and Where clauses.
// The name is resolved through the field alias table at construction and
// is immutable afterwards; a Column is a plain value, safe to share and
// reuse.
//
//	screener.Col("close").GreaterOrEqual(350)
//	screener.Col("close").Between(screener.Col("EMA5"), screener.Col("EMA20"))
//	screener.Col("type").IsIn("stock", "fund")
type Column struct {
	name string
}

// NewColumn creates a Column, resolving display-name aliases such as
// "Price to Earnings Ratio (TTM)" to their API identifiers. Unknown names
// pass through unchanged.
func NewColumn(name string) Column {
	return Column{name: fields.Resolve(name)}
}

// Col is a short alias for NewColumn.
func Col(name string) Column { return NewColumn(name) }

// Name returns the resolved API field identifier.
func (c Column) Name() string { return c.name }

// operand unwraps a Column to its field identifier; other values pass
// through as literal operands.
func operand(v any) any {
	if col, ok := v.(Column); ok {
		return col.name
	}
	return v
}

func (c Column) op(o Op, right any) FilterOperation {
	return FilterOperation{Left: c.name, Operation: o, Right: right}
}

// GreaterThan matches rows where the field exceeds other. The operand may
// be a literal or another Column.
func (c Column) GreaterThan(other any) FilterOperation {
	return c.op(OpGreater, operand(other))
}

// GreaterOrEqual matches rows where the field is at least other.
func (c Column) GreaterOrEqual(other any) FilterOperation {
	return c.op(OpEGreater, operand(other))
}

// LessThan matches rows where the field is below other.
func (c Column) LessThan(other any) FilterOperation {
	return c.op(OpLess, operand(other))
}

// LessOrEqual matches rows where the field is at most other.
func (c Column) LessOrEqual(other any) FilterOperation {
	return c.op(OpELess, operand(other))
}

// Equals matches rows where the field equals other.
func (c Column) Equals(other any) FilterOperation {
	return c.op(OpEqual, operand(other))
}

// NotEquals matches rows where the field differs from other.
func (c Column) NotEquals(other any) FilterOperation {
	return c.op(OpNEqual, operand(other))
}

// Crosses matches rows where the field crossed other in either direction.
func (c Column) Crosses(other any) FilterOperation {
	return c.op(OpCrosses, operand(other))
}

// CrossesAbove matches rows where the field crossed above other.
func (c Column) CrossesAbove(other any) FilterOperation {
	return c.op(OpCrossesAbove, operand(other))
}

// CrossesBelow matches rows where the field crossed below other.
func (c Column) CrossesBelow(other any) FilterOperation {
	return c.op(OpCrossesBelow, operand(other))
}

// Between matches rows where the field lies in [lower, upper]. The bounds
// are kept in caller order and may be Columns.
func (c Column) Between(lower, upper any) FilterOperation {
	return c.op(OpInRange, []any{operand(lower), operand(upper)})
}

// NotBetween matches rows where the field lies outside [lower, upper].
func (c Column) NotBetween(lower, upper any) FilterOperation {
	return c.op(OpNotInRange, []any{operand(lower), operand(upper)})
}

// IsIn matches rows where the field equals one of values.
func (c Column) IsIn(values ...any) FilterOperation {
	return c.op(OpInRange, listOperand(values))
}

// NotIn matches rows where the field equals none of values.
func (c Column) NotIn(values ...any) FilterOperation {
	return c.op(OpNotInRange, listOperand(values))
}

// Has matches rows whose set-typed field contains any of values.
func (c Column) Has(values ...any) FilterOperation {
	return c.op(OpHas, listOperand(values))
}

// HasNoneOf matches rows whose set-typed field contains none of values.
func (c Column) HasNoneOf(values ...any) FilterOperation {
	return c.op(OpHasNoneOf, listOperand(values))
}

// Like matches rows where the field contains pattern, case-insensitive,
// evaluated server-side: LOWER(col) LIKE '%pattern%'.
func (c Column) Like(pattern any) FilterOperation {
	return c.op(OpMatch, operand(pattern))
}

// AbovePct matches rows where the field is above the other column by more
// than pct (as a ratio: 1.03 means 3% above). An optional second
// percentage switches the predicate to "percent within a range"; the two
// thresholds are sorted ascending regardless of call order. A zero second
// percentage is treated as absent.
//
//	Col("close").AbovePct("VWAP", 1.03)
//	Col("close").AbovePct("EMA200", 1.5, 1.2) // in range [1.2, 1.5]
func (c Column) AbovePct(column any, pct float64, pct2 ...float64) FilterOperation {
	return c.pctOp(OpAbovePct, column, pct, pct2)
}

// BelowPct matches rows where the field is below the other column by pct
// or more. The optional second percentage behaves as in AbovePct.
func (c Column) BelowPct(column any, pct float64, pct2 ...float64) FilterOperation {
	return c.pctOp(OpBelowPct, column, pct, pct2)
}

// BetweenPct matches rows where the percentage difference between the
// field and the other column lies within [pct1, pct2]. Thresholds are
// sorted ascending.
func (c Column) BetweenPct(column any, pct1, pct2 float64) FilterOperation {
	lo, hi := sortPair(pct1, pct2)
	return c.op(OpInRangePct, []any{operand(column), lo, hi})
}

// NotBetweenPct matches rows where the percentage difference between the
// field and the other column lies outside [pct1, pct2].
func (c Column) NotBetweenPct(column any, pct1, pct2 float64) FilterOperation {
	lo, hi := sortPair(pct1, pct2)
	return c.op(OpNotInRangePct, []any{operand(column), lo, hi})
}

func (c Column) pctOp(single Op, column any, pct float64, pct2 []float64) FilterOperation {
	if len(pct2) > 0 && pct2[0] != 0 {
		lo, hi := sortPair(pct, pct2[0])
		return c.op(OpInRangePct, []any{operand(column), lo, hi})
	}
	return c.op(single, []any{operand(column), pct})
}

func listOperand(values []any) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, operand(v))
	}
	return out
}

func sortPair(a, b float64) (float64, float64) {
	if b < a {
		return b, a
	}
	return a, b
}
