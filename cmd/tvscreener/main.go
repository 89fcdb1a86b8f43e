// Command tvscreener runs screener queries from the command line.
//
// Examples:
//
//	tvscreener -markets italy -select close,volume -sort-by volume -limit 10
//	tvscreener -where 'close>=350' -where 'type==stock' -format table
//	tvscreener -query-file query.json -jq '.[] | select(.close > 100) | .ticker'
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/quantfold/tvscreener/internal/config"
	"github.com/quantfold/tvscreener/internal/jqfilter"
	"github.com/quantfold/tvscreener/internal/logging"
	"github.com/quantfold/tvscreener/internal/schema"
	"github.com/quantfold/tvscreener/pkg/screener"
)

// stringList collects repeated flag values.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ", ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tvscreener:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var (
		markets    = flag.String("markets", "", "comma-separated markets to scan (default: america)")
		tickers    = flag.String("tickers", "", "comma-separated exchange:symbol tickers")
		index      = flag.String("index", "", "comma-separated index symbolsets (SYML:source;ticker)")
		selectCols = flag.String("select", "", "comma-separated output columns")
		sortBy     = flag.String("sort-by", "", "column to sort by")
		asc        = flag.Bool("asc", false, "sort ascending")
		nullsFirst = flag.Bool("nulls-first", false, "sort nulls first")
		offset     = flag.Int("offset", 0, "start of the result window")
		limit      = flag.Int("limit", 0, "end of the result window (default 50)")
		queryFile  = flag.String("query-file", "", "raw scan payload JSON file (overrides query flags)")
		dryRun     = flag.Bool("dry-run", false, "validate and print the payload without sending it")
		jqExpr     = flag.String("jq", "", "jq expression applied to the result rows")
		format     = flag.String("format", "json", "output format: json or table")
		baseURL    = flag.String("base-url", cfg.BaseURL, "scanner API base URL")
		timeout    = flag.Duration("timeout", cfg.Timeout, "request timeout")
	)
	var wheres stringList
	flag.Var(&wheres, "where", "predicate like 'close>=350' (repeatable, ANDed)")
	flag.Parse()

	cleanup, err := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := []screener.Option{
		screener.WithBaseURL(*baseURL),
		screener.WithTimeout(*timeout),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, screener.WithUserAgent(cfg.UserAgent))
	}
	if cfg.CacheEntries > 0 {
		opts = append(opts, screener.WithCache(cfg.CacheEntries))
	}
	client := screener.NewClient(opts...)

	var result *screener.ScanResult
	if *queryFile != "" {
		result, err = runQueryFile(ctx, client, *queryFile, *markets, *dryRun)
	} else {
		q, buildErr := buildQuery(*markets, *tickers, *index, *selectCols, wheres, *sortBy, *asc, *nullsFirst, *offset, *limit)
		if buildErr != nil {
			return buildErr
		}
		if *dryRun {
			return printPayload(q.Payload())
		}
		result, err = client.Scan(ctx, q)
	}
	if err != nil {
		return err
	}
	if result == nil {
		return nil // dry run
	}

	slog.Debug("scan finished", slog.Int("total_count", result.TotalCount), slog.Int("rows", len(result.Rows)))

	if *jqExpr != "" {
		return printJQ(result, *jqExpr)
	}
	if *format == "table" {
		return printTable(result)
	}
	return printJSON(result)
}

// buildQuery assembles a query from the CLI flags.
func buildQuery(markets, tickers, index, selectCols string, wheres []string, sortBy string, asc, nullsFirst bool, offset, limit int) (*screener.Query, error) {
	q := screener.NewQuery()

	switch {
	case tickers != "":
		q.SetTickers(splitList(tickers)...)
	case index != "":
		q.SetIndex(splitList(index)...)
	case markets != "":
		q.SetMarkets(splitList(markets)...)
	}

	if selectCols != "" {
		cols := splitList(selectCols)
		sel := make([]any, len(cols))
		for i, c := range cols {
			sel[i] = c
		}
		q.Select(sel...)
	}

	if len(wheres) > 0 {
		predicates := make([]screener.FilterOperation, 0, len(wheres))
		for _, w := range wheres {
			p, err := parsePredicate(w)
			if err != nil {
				return nil, err
			}
			predicates = append(predicates, p)
		}
		q.Where(predicates...)
	}

	if sortBy != "" {
		q.OrderBy(sortBy, asc, nullsFirst)
	}
	if offset > 0 {
		q.Offset(offset)
	}
	if limit > 0 {
		q.Limit(limit)
	}
	return q, nil
}

// predicateOps maps CLI comparison syntax to API operations. Order
// matters: two-character operators must be tried before their
// one-character prefixes.
var predicateOps = []struct {
	token string
	op    screener.Op
}{
	{">=", screener.OpEGreater},
	{"<=", screener.OpELess},
	{"!=", screener.OpNEqual},
	{"==", screener.OpEqual},
	{">", screener.OpGreater},
	{"<", screener.OpLess},
}

// parsePredicate parses expressions like "close>=350" or "type==stock".
// Numeric operands are compared as numbers, everything else as strings.
func parsePredicate(s string) (screener.FilterOperation, error) {
	for _, cand := range predicateOps {
		idx := strings.Index(s, cand.token)
		if idx <= 0 {
			continue
		}
		left := strings.TrimSpace(s[:idx])
		rawRight := strings.TrimSpace(s[idx+len(cand.token):])
		if rawRight == "" {
			break
		}
		var right any = rawRight
		if f, err := strconv.ParseFloat(rawRight, 64); err == nil {
			right = f
		}
		return screener.FilterOperation{
			Left:      screener.Col(left).Name(),
			Operation: cand.op,
			Right:     right,
		}, nil
	}
	return screener.FilterOperation{}, fmt.Errorf("cannot parse predicate %q (expected <field><op><value> with op one of >=, <=, !=, ==, >, <)", s)
}

// runQueryFile validates a raw payload document and submits it.
func runQueryFile(ctx context.Context, client *screener.Client, path, markets string, dryRun bool) (*screener.ScanResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	if violations := validator.ValidateJSON(data); violations != nil {
		return nil, fmt.Errorf("invalid scan payload %s:\n  %s", path, strings.Join(violations, "\n  "))
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}

	market := "global"
	if ms := splitList(markets); len(ms) == 1 {
		market = ms[0]
	}

	if dryRun {
		return nil, printPayload(payload)
	}
	return client.ScanRaw(ctx, market, payload)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printPayload(payload map[string]any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func printJSON(result *screener.ScanResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"totalCount": result.TotalCount,
		"rows":       result.Records(),
	})
}

func printTable(result *screener.ScanResult) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(append([]string{"ticker"}, result.Columns...), "\t"))
	for _, row := range result.Rows {
		cells := make([]string, 0, len(row.Values)+1)
		cells = append(cells, row.Ticker)
		for _, v := range row.Values {
			cells = append(cells, fmt.Sprint(v))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	fmt.Fprintf(w, "\n%d of %d matches shown\n", len(result.Rows), result.TotalCount)
	return w.Flush()
}

func printJQ(result *screener.ScanResult, expr string) error {
	data, err := json.Marshal(result.Records())
	if err != nil {
		return err
	}
	res, err := jqfilter.New().Apply(data, expr, 0)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	for _, v := range res.Values {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	for _, msg := range res.Errors {
		fmt.Fprintln(os.Stderr, "jq:", msg)
	}
	return nil
}
