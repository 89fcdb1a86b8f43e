package screener

import (
	"fmt"

	"github.com/quantfold/tvscreener/pkg/fields"
)

// scanResponse is the wire shape of a scan reply.
type scanResponse struct {
	TotalCount int       `json:"totalCount"`
	Data       []scanRow `json:"data"`
}

type scanRow struct {
	Symbol string `json:"s"`
	Values []any  `json:"d"`
}

// ScanResult is the reassembled tabular reply. TotalCount is the number
// of instruments matching the query server-side (a COUNT(*)); Rows holds
// at most the requested window.
type ScanResult struct {
	TotalCount int
	Columns    []string // requested output columns, in order
	Rows       []Row
}

// Row is one instrument. Values align positionally with the result's
// Columns.
type Row struct {
	Ticker  string
	Values  []any
	columns []string
}

// Get returns the value of the named column. The name is resolved
// through the alias table, so both "Price to Earnings Ratio (TTM)" and
// "price_earnings_ttm" address the same cell.
func (r Row) Get(column string) (any, bool) {
	name := fields.Resolve(column)
	for i, col := range r.columns {
		if col == name {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Records renders the rows as generic maps, each keyed by "ticker" plus
// the output columns. Useful for JSON re-encoding and jq-style
// post-processing.
func (s *ScanResult) Records() []map[string]any {
	records := make([]map[string]any, 0, len(s.Rows))
	for _, row := range s.Rows {
		rec := make(map[string]any, len(s.Columns)+1)
		rec["ticker"] = row.Ticker
		for i, col := range s.Columns {
			rec[col] = row.Values[i]
		}
		records = append(records, rec)
	}
	return records
}

// buildResult zips response rows with the requested columns. A row whose
// value count differs from the column count is a protocol violation and
// fails the whole scan.
func buildResult(sr *scanResponse, columns []string) (*ScanResult, error) {
	rows := make([]Row, 0, len(sr.Data))
	for i, d := range sr.Data {
		if len(d.Values) != len(columns) {
			return nil, fmt.Errorf("scan response row %d (%s) has %d values, want %d", i, d.Symbol, len(d.Values), len(columns))
		}
		rows = append(rows, Row{Ticker: d.Symbol, Values: d.Values, columns: columns})
	}
	return &ScanResult{TotalCount: sr.TotalCount, Columns: columns, Rows: rows}, nil
}
