package screener

import (
	"context"
	"fmt"
	"maps"

	"github.com/quantfold/tvscreener/pkg/fields"
)

// indexPreset is the preset the API expects when filtering by index
// membership.
const indexPreset = "index_components_market_pages"

// defaultColumns is the output column set used when Select is never
// called, matching the hosted screener's default view.
var defaultColumns = []string{"name", "close", "volume", "market_cap_basic"}

// scopeKind selects which instrument scope the query targets. The three
// scopes are mutually exclusive: setting one clears the others.
type scopeKind int

const (
	scopeMarkets scopeKind = iota
	scopeTickers
	scopeIndex
)

// SortBy is the sort specification of the compiled payload.
type SortBy struct {
	SortBy     string `json:"sortBy"`
	SortOrder  string `json:"sortOrder"` // "asc" | "desc"
	NullsFirst *bool  `json:"nullsFirst,omitempty"`
}

// Query accumulates a screener query and compiles it into the scan API's
// request payload. Every builder method mutates the receiver and returns
// it, so calls chain:
//
//	res, err := screener.NewQuery().
//		Select("close", "volume", "52 Week High").
//		Where(screener.Col("close").GreaterOrEqual(350)).
//		OrderBy("volume", false).
//		Limit(100).
//		GetScannerData(ctx)
//
// A Query is not safe for concurrent mutation; use Copy to branch.
type Query struct {
	scope    scopeKind
	markets  []string
	tickers  []string
	indexes  []string
	columns  []string
	filter   []FilterOperation
	filter2  *Node
	sort     SortBy
	rng      [2]int // [offset, limit]
	options  map[string]any
	extra    map[string]any
	endpoint string // market segment of the scan URL
}

// NewQuery returns a query with the screener's defaults: the america
// market, the default column set, descending traded-value sort, and the
// [0, 50] result window.
func NewQuery() *Query {
	return &Query{
		scope:    scopeMarkets,
		markets:  []string{"america"},
		columns:  append([]string(nil), defaultColumns...),
		sort:     SortBy{SortBy: "Value.Traded", SortOrder: "desc"},
		rng:      [2]int{0, 50},
		options:  map[string]any{"lang": "en"},
		endpoint: "america",
	}
}

// SetMarkets replaces the scope with the given markets. Exactly one
// market routes the request to that market's dedicated endpoint; zero or
// several route to the shared global endpoint.
func (q *Query) SetMarkets(markets ...string) *Query {
	q.scope = scopeMarkets
	q.markets = append([]string{}, markets...)
	q.tickers, q.indexes = nil, nil
	if len(markets) == 1 {
		q.endpoint = markets[0]
	} else {
		q.endpoint = globalEndpoint
	}
	return q
}

// SetTickers replaces the scope with an explicit ticker list
// ("exchange:symbol" syntax), clearing any market selection. Ticker
// queries always use the global endpoint.
func (q *Query) SetTickers(tickers ...string) *Query {
	q.scope = scopeTickers
	q.tickers = append([]string{}, tickers...)
	q.markets, q.indexes = nil, nil
	q.endpoint = globalEndpoint
	return q
}

// SetIndex replaces the scope with the components of the given indexes
// ("SYML:source;ticker" syntax), clearing any market selection. Index
// queries always use the global endpoint.
func (q *Query) SetIndex(indexes ...string) *Query {
	q.scope = scopeIndex
	q.indexes = append([]string{}, indexes...)
	q.markets, q.tickers = nil, nil
	q.endpoint = globalEndpoint
	return q
}

// Select replaces the output columns. Each argument may be a Column, a
// display-name alias, or a raw API identifier; anything else is
// stringified and resolved the same way.
func (q *Query) Select(columns ...any) *Query {
	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		switch v := c.(type) {
		case Column:
			cols = append(cols, v.Name())
		case string:
			cols = append(cols, fields.Resolve(v))
		default:
			cols = append(cols, fields.Resolve(fmt.Sprint(v)))
		}
	}
	q.columns = cols
	return q
}

// Where replaces the flat predicate list. Predicates are ANDed by the
// API. The boolean-tree filter set by Where2 is unaffected.
func (q *Query) Where(predicates ...FilterOperation) *Query {
	q.filter = append([]FilterOperation{}, predicates...)
	return q
}

// Where2 replaces the boolean-tree filter with the given And/Or node.
// The flat list set by Where is unaffected.
func (q *Query) Where2(node Node) *Query {
	q.filter2 = &node
	return q
}

// OrderBy replaces the sort specification. The column may be a Column or
// a name; the optional trailing argument sorts nulls first.
func (q *Query) OrderBy(column any, ascending bool, nullsFirst ...bool) *Query {
	order := "desc"
	if ascending {
		order = "asc"
	}
	nf := len(nullsFirst) > 0 && nullsFirst[0]
	name, ok := operand(column).(string)
	if !ok {
		name = fmt.Sprint(column)
	}
	q.sort = SortBy{SortBy: fields.Resolve(name), SortOrder: order, NullsFirst: &nf}
	return q
}

// Offset sets the start of the result window. Negative values clamp to
// zero.
func (q *Query) Offset(offset int) *Query {
	q.rng[0] = max(offset, 0)
	return q
}

// Limit sets the end of the result window. Negative values clamp to
// zero.
func (q *Query) Limit(limit int) *Query {
	q.rng[1] = max(limit, 0)
	return q
}

// SetProperty sets an arbitrary top-level key in the compiled payload.
// It is the escape hatch for passthrough options not otherwise modeled,
// such as "ignore_unknown_fields" or "price_conversion".
func (q *Query) SetProperty(key string, value any) *Query {
	if q.extra == nil {
		q.extra = make(map[string]any)
	}
	q.extra[key] = value
	return q
}

// Copy returns an independent duplicate of the query. The duplication is
// shallow: scope, column and filter slices are aliased, which is safe
// because every builder method replaces them wholesale rather than
// editing in place. The option maps and the result window are duplicated
// since SetProperty, Offset and Limit mutate those directly.
func (q *Query) Copy() *Query {
	cp := *q
	cp.options = maps.Clone(q.options)
	cp.extra = maps.Clone(q.extra)
	return &cp
}

// Columns returns the current output columns.
func (q *Query) Columns() []string {
	return append([]string(nil), q.columns...)
}

// Endpoint returns the market segment of the scan URL: the single
// selected market, or "global" for multi-market, ticker and index scope.
func (q *Query) Endpoint() string { return q.endpoint }

// Payload compiles the accumulated state into the scan API's request
// document. The returned map is freshly built on every call.
func (q *Query) Payload() map[string]any {
	symbols := map[string]any{
		"query":   map[string]any{"types": []any{}},
		"tickers": []string{},
	}
	switch q.scope {
	case scopeTickers:
		symbols["tickers"] = q.tickers
	case scopeIndex:
		symbols["symbolset"] = q.indexes
	}

	payload := map[string]any{
		"symbols": symbols,
		"options": q.options,
		"columns": q.columns,
		"sort":    q.sort,
		"range":   []int{q.rng[0], q.rng[1]},
	}
	if q.scope == scopeMarkets {
		payload["markets"] = q.markets
	}
	if q.scope == scopeIndex {
		payload["preset"] = indexPreset
	}
	if q.filter != nil {
		payload["filter"] = q.filter
	}
	if q.filter2 != nil {
		payload["filter2"] = q.filter2
	}
	for k, v := range q.extra {
		payload[k] = v
	}
	return payload
}

// GetScannerData executes the query with the package default client. Use
// Client.Scan to control base URL, headers, timeout or caching.
func (q *Query) GetScannerData(ctx context.Context) (*ScanResult, error) {
	return defaultClient.Scan(ctx, q)
}

var defaultClient = NewClient()
