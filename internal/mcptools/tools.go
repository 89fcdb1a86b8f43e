// Package mcptools exposes the screener as MCP tools.
package mcptools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quantfold/tvscreener/pkg/fields"
	"github.com/quantfold/tvscreener/pkg/screener"
)

// Deps contains the dependencies shared by all tools.
type Deps struct {
	Client *screener.Client
	Fields *fields.Index
}

// Register registers all screener tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "screener_scan",
		Description: "Run a stock-screener query. Scope by markets, explicit exchange:symbol tickers, or index membership; pick output columns; filter with predicates (ANDed); sort and paginate. Returns the total match count and the requested window of rows.",
	}, ToolScan(d))

	sdkmcp.AddTool(srv, &sdkmcp.Tool{
		Name:        "screener_search_fields",
		Description: "Search the known screener field catalog by keywords (e.g. 'moving average 200', 'price earnings'). Returns API field identifiers usable in screener_scan columns, filters, and sort_by.",
	}, ToolSearchFields(d))
}

// ScanFilter is one predicate of a scan request.
type ScanFilter struct {
	Left      string `json:"left" jsonschema:"required,Field name or display alias"`
	Operation string `json:"operation" jsonschema:"required,Predicate operation: greater, egreater, less, eless, equal, nequal, in_range, not_in_range, match, crosses, crosses_above, crosses_below, above%, below%, in_range%, not_in_range%, has, has_none_of"`
	Right     any    `json:"right,omitempty" jsonschema:"Operand; a scalar, or a list for the range and membership operations"`
}

// ScanInput is the input for screener_scan.
type ScanInput struct {
	Markets   []string     `json:"markets,omitempty" jsonschema:"Markets to scan (default: america). Ignored when tickers or indexes are set"`
	Tickers   []string     `json:"tickers,omitempty" jsonschema:"Explicit exchange:symbol tickers"`
	Indexes   []string     `json:"indexes,omitempty" jsonschema:"Index symbolsets, SYML:source;ticker syntax"`
	Columns   []string     `json:"columns,omitempty" jsonschema:"Output fields (default: name, close, volume, market_cap_basic)"`
	Filters   []ScanFilter `json:"filters,omitempty" jsonschema:"Predicates, ANDed together"`
	SortBy    string       `json:"sort_by,omitempty" jsonschema:"Field to sort by (default: traded value, descending)"`
	Ascending bool         `json:"ascending,omitempty" jsonschema:"Sort ascending instead of descending"`
	Offset    int          `json:"offset,omitempty" jsonschema:"Start of the result window (default 0)"`
	Limit     int          `json:"limit,omitempty" jsonschema:"End of the result window (default 50)"`
}

// ScanOutput is the output of screener_scan.
type ScanOutput struct {
	TotalCount int              `json:"total_count"`
	Columns    []string         `json:"columns"`
	Rows       []map[string]any `json:"rows"`
}

// ToolScan executes a screener query.
func ToolScan(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ScanInput) (*sdkmcp.CallToolResult, ScanOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ScanInput) (*sdkmcp.CallToolResult, ScanOutput, error) {
		q, err := BuildQuery(input)
		if err != nil {
			return nil, ScanOutput{}, err
		}

		res, err := d.Client.Scan(ctx, q)
		if err != nil {
			return nil, ScanOutput{}, err
		}

		out := ScanOutput{
			TotalCount: res.TotalCount,
			Columns:    res.Columns,
			Rows:       res.Records(),
		}
		if out.Rows == nil {
			out.Rows = []map[string]any{}
		}
		return nil, out, nil
	}
}

// BuildQuery translates tool input into a screener query.
func BuildQuery(input ScanInput) (*screener.Query, error) {
	q := screener.NewQuery()

	switch {
	case len(input.Tickers) > 0:
		q.SetTickers(input.Tickers...)
	case len(input.Indexes) > 0:
		q.SetIndex(input.Indexes...)
	case len(input.Markets) > 0:
		q.SetMarkets(input.Markets...)
	}

	if len(input.Columns) > 0 {
		cols := make([]any, len(input.Columns))
		for i, c := range input.Columns {
			cols[i] = c
		}
		q.Select(cols...)
	}

	if len(input.Filters) > 0 {
		predicates := make([]screener.FilterOperation, 0, len(input.Filters))
		for _, f := range input.Filters {
			op := screener.Op(f.Operation)
			if !op.Valid() {
				return nil, fmt.Errorf("unknown filter operation %q", f.Operation)
			}
			if f.Left == "" {
				return nil, fmt.Errorf("filter is missing the left field name")
			}
			predicates = append(predicates, screener.FilterOperation{
				Left:      fields.Resolve(f.Left),
				Operation: op,
				Right:     f.Right,
			})
		}
		q.Where(predicates...)
	}

	if input.SortBy != "" {
		q.OrderBy(input.SortBy, input.Ascending)
	}
	if input.Offset > 0 {
		q.Offset(input.Offset)
	}
	if input.Limit > 0 {
		q.Limit(input.Limit)
	}
	return q, nil
}

// SearchFieldsInput is the input for screener_search_fields.
type SearchFieldsInput struct {
	Query string `json:"query" jsonschema:"required,Keywords to match against field names (tokens ANDed, prefix matching)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max fields to return (default 20)"`
}

// SearchFieldsOutput is the output of screener_search_fields.
type SearchFieldsOutput struct {
	Fields []fields.Field `json:"fields"`
}

// ToolSearchFields searches the field catalog.
func ToolSearchFields(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchFieldsInput) (*sdkmcp.CallToolResult, SearchFieldsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchFieldsInput) (*sdkmcp.CallToolResult, SearchFieldsOutput, error) {
		if input.Query == "" {
			return nil, SearchFieldsOutput{}, fmt.Errorf("query is required")
		}
		limit := input.Limit
		if limit <= 0 {
			limit = 20
		}
		matches := d.Fields.Search(input.Query, limit)
		if matches == nil {
			matches = []fields.Field{}
		}
		return nil, SearchFieldsOutput{Fields: matches}, nil
	}
}
