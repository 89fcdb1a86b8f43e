package jqfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_ExtractsValues(t *testing.T) {
	engine := New()

	data := []byte(`[{"ticker": "AMEX:SPY", "close": 410.68}, {"ticker": "NASDAQ:TSLA", "close": 207.3}]`)

	result, err := engine.Apply(data, ".[].ticker", 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"AMEX:SPY", "NASDAQ:TSLA"}, result.Values)
	assert.Equal(t, 2, result.RawCount)
}

func TestApply_Select(t *testing.T) {
	engine := New()

	data := []byte(`[{"ticker": "A", "close": 50}, {"ticker": "B", "close": 500}]`)

	result, err := engine.Apply(data, `.[] | select(.close > 100) | .ticker`, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{"B"}, result.Values)
}

func TestApply_MaxResults(t *testing.T) {
	engine := New()

	data := []byte(`[1, 2, 3, 4, 5]`)

	result, err := engine.Apply(data, ".[]", 3)
	require.NoError(t, err)
	assert.Len(t, result.Values, 3)
	assert.Equal(t, 5, result.RawCount)
}

func TestApply_PerItemErrorsAreCollected(t *testing.T) {
	engine := New()

	data := []byte(`[{"v": 1}, "not an object", {"v": 3}]`)

	result, err := engine.Apply(data, ".[].v", 0)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 3.0}, result.Values)
	assert.NotEmpty(t, result.Errors)
}

func TestApply_InvalidExpression(t *testing.T) {
	engine := New()

	_, err := engine.Apply([]byte(`{}`), ".foo[", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")
}

func TestApply_InvalidJSON(t *testing.T) {
	engine := New()

	_, err := engine.Apply([]byte(`{nope`), ".", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON data")
}
