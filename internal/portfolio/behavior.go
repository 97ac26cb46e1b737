package portfolio

import (
	"fmt"
	"sort"
	"strings"

	"tokenfolio/internal/model"
)

// Trading style labels by hold time, shortest first. Assignment requires at
// least 90% of the bought position to have been sold; pairs held between two
// and seven days fall in the gap and stay unclassified.
var styleOrder = []string{
	"High-Frequency Trader",
	"Scalper",
	"Day Trader",
	"Swing Trader",
	"Short-Term Trader",
	"Mid-Term Trader",
	"Long-Term Trader",
	"Buy and Hold Investor",
}

const minSoldPctForStyle = 90

// Tokens that act as cash legs rather than trades.
var behaviorExcluded = map[string]struct{}{
	"USDC":     {},
	"Tether":   {},
	"USD Coin": {},
}

// AnalyzeBehavior pairs each buy with the first subsequent sell of the same
// token at or after the cutoff timestamp and summarizes holding habits.
// Sells are not consumed: two buys before one sell both pair with it.
func AnalyzeBehavior(c *Classification, cutoff int64) model.BehaviorReport {
	report := model.BehaviorReport{
		TotalTokens: len(c.Order),
		Styles:      make(map[string][]model.TradeRecord, len(styleOrder)),
	}
	for _, style := range styleOrder {
		report.Styles[style] = []model.TradeRecord{}
	}

	var gatedHolds []int64

	for _, symbol := range c.Order {
		if _, excluded := behaviorExcluded[symbol]; excluded {
			continue
		}
		ledger := c.Ledgers[symbol]

		buys := sortedByTime(ledger.Buys)
		sells := sortedByTime(ledger.Sells)

		for _, buy := range buys {
			if buy.Timestamp < cutoff {
				continue
			}
			for _, sell := range sells {
				if sell.Timestamp < cutoff || sell.Timestamp <= buy.Timestamp {
					continue
				}

				holdSeconds := sell.Timestamp - buy.Timestamp
				profit := sell.GainedAmount - buy.SwappedAmount

				if profit > 0 {
					report.ProfitableSales++
					if report.BestTrade == nil || profit > report.BestTrade.Profit {
						report.BestTrade = &model.TradeRecord{
							Token:    symbol,
							BuySpent: buy.SwappedAmount,
							SellGain: sell.GainedAmount,
							BuyHash:  buy.Hash,
							SellHash: sell.Hash,
							Profit:   profit,
						}
					}
					if report.LongestHold == nil || holdSeconds > report.LongestHold.HoldSeconds {
						report.LongestHold = holdRecord(symbol, holdSeconds, sell)
					}
					if report.ShortestHold == nil || holdSeconds < report.ShortestHold.HoldSeconds {
						report.ShortestHold = holdRecord(symbol, holdSeconds, sell)
					}
				} else if profit < 0 {
					report.UnprofitableSales++
				}

				var soldPct float64
				if buy.GainedAmount != 0 {
					soldPct = sell.SwappedAmount / buy.GainedAmount * 100
				}
				if soldPct >= minSoldPctForStyle {
					gatedHolds = append(gatedHolds, holdSeconds)
					if style := styleForHold(holdSeconds); style != "" {
						report.Styles[style] = append(report.Styles[style], model.TradeRecord{
							Token:    symbol,
							BuySpent: buy.SwappedAmount,
							SellGain: sell.GainedAmount,
							BuyHash:  buy.Hash,
							SellHash: sell.Hash,
							Profit:   profit,
							HoldTime: FormatDuration(holdSeconds),
						})
					}
				}
				break
			}
		}
	}

	report.MedianHoldSeconds = medianInt64(gatedHolds)
	report.MedianHoldTime = FormatDuration(report.MedianHoldSeconds)
	report.ActiveTimeWindows = activeTimeWindows(c, 2, 2)

	return report
}

func holdRecord(symbol string, holdSeconds int64, sell model.SwapEvent) *model.HoldRecord {
	return &model.HoldRecord{
		Token:       symbol,
		HoldSeconds: holdSeconds,
		HoldTime:    FormatDuration(holdSeconds),
		EthGained:   sell.GainedAmount,
		Hash:        sell.Hash,
	}
}

func styleForHold(holdSeconds int64) string {
	switch {
	case holdSeconds < 3600:
		return "High-Frequency Trader"
	case holdSeconds < 3*3600:
		return "Scalper"
	case holdSeconds < 6*3600:
		return "Day Trader"
	case holdSeconds < 12*3600:
		return "Swing Trader"
	case holdSeconds < 24*3600:
		return "Short-Term Trader"
	case holdSeconds < 48*3600:
		return "Mid-Term Trader"
	case holdSeconds >= 7*24*3600:
		return "Buy and Hold Investor"
	default:
		return ""
	}
}

func sortedByTime(swaps []model.SwapEvent) []model.SwapEvent {
	out := append([]model.SwapEvent(nil), swaps...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

func medianInt64(values []int64) int64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]int64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// activeTimeWindows buckets every classified swap into fixed-size UTC hour
// windows and returns the top busiest ones, busiest first.
func activeTimeWindows(c *Classification, windowHours, topN int) []string {
	counts := make(map[string]int)
	var order []string

	bucket := func(ts int64) {
		hour := int(ts/3600) % 24
		start := hour / windowHours * windowHours
		end := start + windowHours
		if end > 24 {
			end = 24
		}
		window := fmt.Sprintf("%02d:00 - %02d:00", start, end)
		if _, seen := counts[window]; !seen {
			order = append(order, window)
		}
		counts[window]++
	}

	for _, symbol := range c.Order {
		ledger := c.Ledgers[symbol]
		for _, swap := range ledger.Buys {
			bucket(swap.Timestamp)
		}
		for _, swap := range ledger.Sells {
			bucket(swap.Timestamp)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topN {
		order = order[:topN]
	}
	return order
}

// FormatDuration renders seconds as a compact day/hour/minute/second string.
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return "0 seconds"
	}
	days := seconds / 86400
	hours := seconds % 86400 / 3600
	minutes := seconds % 3600 / 60
	secs := seconds % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d days", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hours", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", minutes))
	}
	if secs > 0 {
		parts = append(parts, fmt.Sprintf("%d seconds", secs))
	}
	return strings.Join(parts, " ")
}
