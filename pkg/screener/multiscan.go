package screener

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ScanMarkets runs the query once per market concurrently, each scan
// targeting that market's dedicated endpoint, and returns the results
// keyed by market. The query itself is not mutated; each worker operates
// on a copy. workers bounds in-flight requests; <= 0 uses 4. The first
// failing market cancels the rest.
func (c *Client) ScanMarkets(ctx context.Context, q *Query, markets []string, workers int) (map[string]*ScanResult, error) {
	if workers <= 0 {
		workers = 4
	}

	// Copies are taken up front so no goroutine touches the shared query.
	queries := make([]*Query, len(markets))
	for i, market := range markets {
		queries[i] = q.Copy().SetMarkets(market)
	}

	results := make([]*ScanResult, len(markets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, market := range markets {
		g.Go(func() error {
			res, err := c.Scan(ctx, queries[i])
			if err != nil {
				return fmt.Errorf("scanning %s: %w", market, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*ScanResult, len(markets))
	for i, market := range markets {
		out[market] = results[i]
	}
	return out, nil
}
