package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/tvscreener/pkg/screener"
)

func TestValidator_AcceptsCompiledQueryPayload(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	q := screener.NewQuery().
		SetMarkets("italy", "america").
		Select("close", "volume").
		Where(screener.Col("close").GreaterOrEqual(350)).
		Where2(screener.And(
			screener.Col("type").Equals("stock"),
			screener.Or(
				screener.Col("close").GreaterThan(100),
				screener.Col("volume").GreaterThan(1_000_000),
			),
		)).
		OrderBy("volume", false).
		Limit(100).
		SetProperty("ignore_unknown_fields", true)

	assert.Nil(t, v.ValidatePayload(q.Payload()))
}

func TestValidator_AcceptsTickerAndIndexScopes(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	assert.Nil(t, v.ValidatePayload(screener.NewQuery().SetTickers("NASDAQ:TSLA").Payload()))
	assert.Nil(t, v.ValidatePayload(screener.NewQuery().SetIndex("SYML:SP;SPX").Payload()))
}

func TestValidator_RejectsBadSortOrder(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	violations := v.ValidateJSON([]byte(`{
		"symbols": {"query": {"types": []}, "tickers": []},
		"columns": ["close"],
		"sort": {"sortBy": "close", "sortOrder": "sideways"}
	}`))
	require.NotEmpty(t, violations)
	assert.Contains(t, strings.Join(violations, "\n"), "/sort/sortOrder")
}

func TestValidator_RejectsBadRange(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	violations := v.ValidateJSON([]byte(`{
		"symbols": {},
		"columns": ["close"],
		"range": [0, 50, 100]
	}`))
	assert.NotEmpty(t, violations)

	violations = v.ValidateJSON([]byte(`{
		"symbols": {},
		"columns": ["close"],
		"range": [-1, 50]
	}`))
	assert.NotEmpty(t, violations)
}

func TestValidator_RejectsUnknownFilterOperation(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	violations := v.ValidateJSON([]byte(`{
		"symbols": {},
		"columns": ["close"],
		"filter": [{"left": "close", "operation": "sorta_near", "right": 5}]
	}`))
	assert.NotEmpty(t, violations)
}

func TestValidator_RejectsMissingColumns(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	violations := v.ValidateJSON([]byte(`{"symbols": {}}`))
	assert.NotEmpty(t, violations)
}

func TestValidator_RejectsMalformedJSON(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	violations := v.ValidateJSON([]byte(`{not json`))
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "invalid JSON")
}
