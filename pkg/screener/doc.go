// Package screener builds SQL-like queries against the TradingView
// stock-screener scan API and reassembles the tabular responses.
//
// A query is composed fluently from a scope (markets, explicit tickers,
// or index membership), output columns, filter predicates, a sort
// specification and a pagination window, then executed with a Client:
//
//	client := screener.NewClient()
//	res, err := client.Scan(ctx, screener.NewQuery().
//		Select("name", "close", "volume", "Relative Volume").
//		Where(
//			screener.Col("market_cap_basic").Between(1_000_000, 50_000_000),
//			screener.Col("relative_volume_10d_calc").GreaterThan(1.2),
//			screener.Col("MACD.macd").GreaterOrEqual(screener.Col("MACD.signal")),
//		).
//		OrderBy("volume", false).
//		Limit(25))
//
// Predicates come from [Column] methods; [And] and [Or] combine them
// into boolean trees for [Query.Where2]. Field names are resolved
// through the alias table in package fields, so display names from the
// screener UI work anywhere an identifier does.
package screener
