package screener

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientScan_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/america/scan", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, []any{"close", "volume"}, payload["columns"])

		json.NewEncoder(w).Encode(map[string]any{
			"totalCount": 18060,
			"data": []map[string]any{
				{"s": "AMEX:SPY", "d": []any{410.68, 107367671}},
				{"s": "NASDAQ:TSLA", "d": []any{207.30, 94879471}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	res, err := client.Scan(context.Background(), NewQuery().Select("close", "volume"))
	require.NoError(t, err)

	assert.Equal(t, 18060, res.TotalCount)
	assert.Equal(t, []string{"close", "volume"}, res.Columns)
	require.Len(t, res.Rows, 2)

	assert.Equal(t, "AMEX:SPY", res.Rows[0].Ticker)
	close0, ok := res.Rows[0].Get("close")
	require.True(t, ok)
	assert.Equal(t, 410.68, close0)

	// Display aliases address the same cell.
	price, ok := res.Rows[0].Get("Price")
	require.True(t, ok)
	assert.Equal(t, 410.68, price)

	_, ok = res.Rows[0].Get("market_cap_basic")
	assert.False(t, ok)
}

func TestClientScan_TickerScopeHitsGlobalEndpoint(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.NotContains(t, payload, "markets")
		symbols := payload["symbols"].(map[string]any)
		assert.Equal(t, []any{"NASDAQ:TSLA"}, symbols["tickers"])

		json.NewEncoder(w).Encode(map[string]any{"totalCount": 1, "data": []map[string]any{
			{"s": "NASDAQ:TSLA", "d": []any{207.30, 94879471.0, "TSLA", 6.589904e11}},
		}})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	q := NewQuery().SetMarkets("italy").SetTickers("NASDAQ:TSLA").
		Select("close", "volume", "name", "market_cap_basic")
	_, err := client.Scan(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "/global/scan", gotPath)
}

func TestClientScan_NonSuccessStatusCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "unknown field: bogus_column"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Scan(context.Background(), NewQuery())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "unknown field: bogus_column")
	assert.Contains(t, err.Error(), "unknown field: bogus_column")
}

func TestClientScan_RowShapeMismatchFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"totalCount": 1, "data": []map[string]any{
			{"s": "AMEX:SPY", "d": []any{410.68}}, // 1 value, 2 columns requested
		}})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Scan(context.Background(), NewQuery().Select("close", "volume"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has 1 values, want 2")
}

func TestClientScan_CacheSkipsRepeatRequests(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(map[string]any{"totalCount": 0, "data": []map[string]any{}})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithCache(8))
	q := NewQuery().Select("close")

	first, err := client.Scan(context.Background(), q)
	require.NoError(t, err)
	second, err := client.Scan(context.Background(), q)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), hits.Load())

	// A different query misses the cache.
	_, err = client.Scan(context.Background(), q.Copy().Limit(10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())
}

func TestClientScan_TransportErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Scan(context.Background(), NewQuery())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClientScan_CustomHeadersAreSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "my-agent/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "abc=1", r.Header.Get("Cookie"))
		json.NewEncoder(w).Encode(map[string]any{"totalCount": 0, "data": []map[string]any{}})
	}))
	defer srv.Close()

	client := NewClient(
		WithBaseURL(srv.URL),
		WithUserAgent("my-agent/1.0"),
		WithHeader("Cookie", "abc=1"),
	)
	_, err := client.Scan(context.Background(), NewQuery())
	require.NoError(t, err)
}

func TestClientScanRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/global/scan", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"totalCount": 2, "data": []map[string]any{
			{"s": "MIL:RACE", "d": []any{387.20}},
		}})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	res, err := client.ScanRaw(context.Background(), "global", map[string]any{
		"symbols": map[string]any{"tickers": []string{"MIL:RACE"}},
		"columns": []any{"close"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"close"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "MIL:RACE", res.Rows[0].Ticker)
}

func TestClientScanRaw_MissingColumnsFails(t *testing.T) {
	client := NewClient()
	_, err := client.ScanRaw(context.Background(), "global", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "columns")
}

func TestScanResult_Records(t *testing.T) {
	res := &ScanResult{
		TotalCount: 2,
		Columns:    []string{"close", "volume"},
		Rows: []Row{
			{Ticker: "AMEX:SPY", Values: []any{410.68, 107367671.0}},
			{Ticker: "NASDAQ:TSLA", Values: []any{207.30, 94879471.0}},
		},
	}
	records := res.Records()
	require.Len(t, records, 2)
	assert.Equal(t, map[string]any{"ticker": "AMEX:SPY", "close": 410.68, "volume": 107367671.0}, records[0])
}
