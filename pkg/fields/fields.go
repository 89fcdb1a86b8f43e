// Package fields maps human-friendly screener field names to the
// identifiers the scan API expects, and provides search over the known
// field catalog.
package fields

import "sort"

// aliases maps display names (as shown in the screener UI) to API field
// identifiers. The table is a practical subset; names that are already
// API identifiers, or that are unknown, pass through Resolve unchanged.
var aliases = map[string]string{
	"1-Month High":                        "High.1M",
	"1-Month Low":                         "Low.1M",
	"52 Week High":                        "price_52_week_high",
	"52 Week Low":                         "price_52_week_low",
	"All Time High":                       "High.All",
	"All Time Low":                        "Low.All",
	"Aroon Down (14)":                     "Aroon.Down",
	"Aroon Up (14)":                       "Aroon.Up",
	"Average Directional Index (14)":      "ADX",
	"Average True Range (14)":             "ATR",
	"Average Volume (10 day)":             "average_volume_10d_calc",
	"Average Volume (30 day)":             "average_volume_30d_calc",
	"Average Volume (60 day)":             "average_volume_60d_calc",
	"Average Volume (90 day)":             "average_volume_90d_calc",
	"Awesome Oscillator":                  "AO",
	"Basic EPS (FY)":                      "basic_eps_net_income",
	"Basic EPS (TTM)":                     "earnings_per_share_basic_ttm",
	"Bollinger Lower Band (20)":           "BB.lower",
	"Bollinger Upper Band (20)":           "BB.upper",
	"Bull Bear Power":                     "BBPower",
	"Change":                              "change_abs",
	"Change %":                            "change",
	"Commodity Channel Index (20)":        "CCI20",
	"Country":                             "country",
	"Currency":                            "currency",
	"Current Ratio (MRQ)":                 "current_ratio",
	"Debt to Equity Ratio (MRQ)":          "debt_to_equity",
	"Dividend Yield Forward":              "dividend_yield_recent",
	"EBITDA (TTM)":                        "ebitda",
	"Exponential Moving Average (5)":      "EMA5",
	"Exponential Moving Average (10)":     "EMA10",
	"Exponential Moving Average (20)":     "EMA20",
	"Exponential Moving Average (30)":     "EMA30",
	"Exponential Moving Average (50)":     "EMA50",
	"Exponential Moving Average (100)":    "EMA100",
	"Exponential Moving Average (200)":    "EMA200",
	"Gross Margin (TTM)":                  "gross_margin",
	"Hull Moving Average (9)":             "HullMA9",
	"Keltner Channels Lower Band (20)":    "KltChnl.lower",
	"Keltner Channels Upper Band (20)":    "KltChnl.upper",
	"MACD Level (12, 26)":                 "MACD.macd",
	"MACD Signal (12, 26)":                "MACD.signal",
	"Market Capitalization":               "market_cap_basic",
	"Momentum (10)":                       "Mom",
	"Moving Averages Rating":              "Recommend.MA",
	"Net Income (FY)":                     "net_income",
	"Net Margin (TTM)":                    "net_margin",
	"Number of Employees":                 "number_of_employees",
	"Open":                                "open",
	"High":                                "high",
	"Low":                                 "low",
	"Operating Margin (TTM)":              "operating_margin",
	"Oscillators Rating":                  "Recommend.Other",
	"Parabolic SAR":                       "P.SAR",
	"Pattern":                             "candlestick",
	"Price":                               "close",
	"Price to Book (FY)":                  "price_book_ratio",
	"Price to Book (MRQ)":                 "price_book_fq",
	"Price to Earnings Ratio (TTM)":       "price_earnings_ttm",
	"Price to Free Cash Flow (TTM)":       "price_free_cash_flow_ttm",
	"Price to Sales (FY)":                 "price_sales_ratio",
	"Rate Of Change (9)":                  "ROC",
	"Relative Strength Index (7)":         "RSI7",
	"Relative Strength Index (14)":        "RSI",
	"Relative Volume":                     "relative_volume_10d_calc",
	"Return on Assets (TTM)":              "return_on_assets",
	"Return on Equity (TTM)":              "return_on_equity",
	"Return on Invested Capital (TTM)":    "return_on_invested_capital",
	"Sector":                              "sector",
	"Simple Moving Average (5)":           "SMA5",
	"Simple Moving Average (10)":          "SMA10",
	"Simple Moving Average (20)":          "SMA20",
	"Simple Moving Average (30)":          "SMA30",
	"Simple Moving Average (50)":          "SMA50",
	"Simple Moving Average (100)":         "SMA100",
	"Simple Moving Average (200)":         "SMA200",
	"Stochastic %D (14, 3, 3)":            "Stoch.D",
	"Stochastic %K (14, 3, 3)":            "Stoch.K",
	"Stochastic RSI Fast (3, 3, 14, 14)":  "Stoch.RSI.K",
	"Stochastic RSI Slow (3, 3, 14, 14)":  "Stoch.RSI.D",
	"Technical Rating":                    "Recommend.All",
	"Total Debt (MRQ)":                    "total_debt",
	"Total Revenue (FY)":                  "total_revenue",
	"Ultimate Oscillator (7, 14, 28)":     "UO",
	"Volatility":                          "Volatility.D",
	"Volatility Month":                    "Volatility.M",
	"Volatility Week":                     "Volatility.W",
	"Volume":                              "volume",
	"Volume Weighted Average Price":       "VWAP",
	"Volume Weighted Moving Average (20)": "VWMA",
	"Williams Percent Range (14)":         "W.R",
}

// Resolve maps a display name to its API field identifier. Names with no
// alias entry are returned as-is.
func Resolve(name string) string {
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

// Markets lists the market names accepted by SetMarkets. The last eight
// entries are instrument classes rather than countries.
var Markets = []string{
	"america", "argentina", "australia", "austria", "bahrain", "bangladesh",
	"belgium", "brazil", "canada", "chile", "china", "colombia", "cyprus",
	"czech", "denmark", "egypt", "estonia", "finland", "france", "germany",
	"greece", "hongkong", "hungary", "iceland", "india", "indonesia",
	"israel", "italy", "japan", "kenya", "korea", "ksa", "kuwait", "latvia",
	"lithuania", "luxembourg", "malaysia", "mexico", "morocco",
	"netherlands", "newzealand", "nigeria", "norway", "pakistan", "peru",
	"philippines", "poland", "portugal", "qatar", "romania", "russia",
	"serbia", "singapore", "slovakia", "southafrica", "spain", "srilanka",
	"sweden", "switzerland", "taiwan", "thailand", "tunisia", "turkey",
	"uae", "uk", "venezuela", "vietnam",
	"bonds", "cfd", "coin", "crypto", "euronext", "forex", "futures",
	"options",
}

// IsKnownMarket reports whether m appears in Markets.
func IsKnownMarket(m string) bool {
	for _, known := range Markets {
		if known == m {
			return true
		}
	}
	return false
}

// Field is one entry of the known field catalog.
type Field struct {
	Name    string `json:"name"`    // API field identifier
	Display string `json:"display"` // human-friendly name
}

// Catalog returns the known fields sorted by API identifier.
func Catalog() []Field {
	out := make([]Field, 0, len(aliases))
	for display, name := range aliases {
		out = append(out, Field{Name: name, Display: display})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
