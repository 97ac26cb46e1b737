package portfolio

import (
	"sort"
	"time"

	"tokenfolio/internal/model"
)

// Weekday names indexed Monday=0, matching the weekday mode computation.
var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WalletStats aggregates the primary ledger into wallet-wide figures. All
// ratios fall back to zero when their denominator is zero.
type WalletStats struct {
	MostActiveWeekday int `json:"most_active_day_of_week"`

	TokensBought    int     `json:"tokens_bought"`
	Profitable      int     `json:"profitable_tokens"`
	Unprofitable    int     `json:"unprofitable_tokens"`
	ProfitablePct   float64 `json:"profitable_tokens_percentage"`
	UnprofitablePct float64 `json:"unprofitable_token_percentage"`

	TotalEthSpent         float64 `json:"total_eth_spent"`
	TotalBuyGas           float64 `json:"total_buy_gas_fees"`
	TotalEthSpentWithGas  float64 `json:"total_eth_spent_including_buy_gas"`
	TotalEthGained        float64 `json:"total_eth_gained"`
	TotalSellGas          float64 `json:"total_sell_gas_fees"`
	TotalEthGainedWithGas float64 `json:"total_eth_gained_including_sell_gas"`

	ProfitRating        float64 `json:"profit_rating"`
	ProfitRatingWithGas float64 `json:"profit_rating_including_gas"`
	LossRating          float64 `json:"loss_rating"`
	LossRatingWithGas   float64 `json:"loss_rating_including_gas"`

	AvgDailyGasSpend    float64 `json:"average_daily_gas_spend"`
	AvgWeeklyGasSpend   float64 `json:"average_weekly_gas_spend"`
	AvgGasPerToken      float64 `json:"average_gas_spent_per_token"`
	AvgTokenBuysPerWeek float64 `json:"average_token_buys_per_week"`

	MedianMultiple              float64 `json:"average_xs"`
	AvgEthSpentPerToken         float64 `json:"average_eth_spent_per_token"`
	AvgEthSpentPerTokenWithFee  float64 `json:"average_eth_spent_per_token_including_buyfee"`
	AvgEthGainedPerToken        float64 `json:"average_eth_gained_per_token"`
	AvgEthGainedPerTokenWithFee float64 `json:"average_eth_gained_per_token_including_sellfee"`
	AvgPercentSoldPerSell       float64 `json:"averagePercentOfTokensSoldPerSell"`

	TotalProfitLoss       float64 `json:"total_eth_profit_loss"`
	TotalROI              float64 `json:"total_roi"`
	SuccessRatio          float64 `json:"profitable_investment_ratio"`
	AvgProfitLossPerToken float64 `json:"average_profit_loss_per_token"`
	NetProfitPct          float64 `json:"net_profit_percentage"`
	AvgGasSpendRatio      float64 `json:"average_gas_spend_ratio"`
}

// MostActiveDayName returns the weekday name for the mode, or an empty
// string for an empty ledger.
func (s WalletStats) MostActiveDayName() string {
	if s.TokensBought == 0 {
		return ""
	}
	return weekdayNames[s.MostActiveWeekday]
}

// Ranked is one entry of a full ledger ordering.
type Ranked struct {
	Symbol string
	Ledger *model.TokenLedger
}

// Analyze computes wallet-wide aggregates over the classified ledger. An
// empty ledger yields zeroed stats.
func Analyze(c *Classification) WalletStats {
	var stats WalletStats
	stats.TokensBought = len(c.Order)
	if stats.TokensBought == 0 {
		return stats
	}

	var (
		firstTimes []int64
		multiples  []float64
		pctSoldSum float64
	)

	for _, symbol := range c.Order {
		ledger := c.Ledgers[symbol]
		if ledger.ProfitInXIncludingGas > 1 {
			stats.Profitable++
		}
		stats.TotalEthSpent += ledger.EthSpent
		stats.TotalBuyGas += ledger.BuyGas
		stats.TotalEthGained += ledger.EthGained
		stats.TotalSellGas += ledger.SellGas
		firstTimes = append(firstTimes, ledger.FirstTxUnix)
		multiples = append(multiples, ledger.ProfitInXIncludingGas)
		if ledger.AvgPercentSoldPerSell != nil {
			pctSoldSum += *ledger.AvgPercentSoldPerSell
		}
	}

	tokens := float64(stats.TokensBought)
	stats.Unprofitable = stats.TokensBought - stats.Profitable
	stats.ProfitablePct = float64(stats.Profitable) / tokens * 100
	stats.UnprofitablePct = float64(stats.Unprofitable) / tokens * 100

	stats.TotalEthSpentWithGas = stats.TotalEthSpent + stats.TotalBuyGas
	stats.TotalEthGainedWithGas = stats.TotalEthGained - stats.TotalSellGas

	stats.ProfitRating = ratio(stats.TotalEthGained, stats.TotalEthSpent) * 100
	stats.ProfitRatingWithGas = ratio(stats.TotalEthGainedWithGas, stats.TotalEthSpentWithGas) * 100
	stats.LossRating = 100 - stats.ProfitRating
	stats.LossRatingWithGas = 100 - stats.ProfitRatingWithGas

	stats.MostActiveWeekday = weekdayMode(firstTimes)

	totalDays := activeDays(firstTimes)
	stats.AvgDailyGasSpend = ratio(stats.TotalBuyGas, float64(totalDays))
	stats.AvgWeeklyGasSpend = stats.AvgDailyGasSpend * 7
	stats.AvgGasPerToken = stats.TotalBuyGas / tokens

	weeks := float64(totalDays) / 7
	if totalDays < 7 {
		weeks = 1
	}
	stats.AvgTokenBuysPerWeek = ratio(tokens, weeks)

	stats.MedianMultiple = median(multiples)
	stats.AvgEthSpentPerToken = stats.TotalEthSpent / tokens
	stats.AvgEthSpentPerTokenWithFee = stats.TotalEthSpentWithGas / tokens
	stats.AvgEthGainedPerToken = stats.TotalEthGained / tokens
	stats.AvgEthGainedPerTokenWithFee = stats.TotalEthGainedWithGas / tokens
	stats.AvgPercentSoldPerSell = pctSoldSum / tokens

	stats.TotalProfitLoss = stats.TotalEthGainedWithGas - stats.TotalEthSpentWithGas
	if stats.TotalEthSpentWithGas != 0 {
		stats.TotalROI = (stats.TotalEthGainedWithGas/stats.TotalEthSpentWithGas - 1) * 100
	}
	stats.SuccessRatio = stats.ProfitablePct
	stats.AvgProfitLossPerToken = stats.TotalProfitLoss / tokens
	stats.NetProfitPct = ratio(stats.TotalProfitLoss, stats.TotalEthSpentWithGas) * 100
	stats.AvgGasSpendRatio = ratio(stats.TotalBuyGas, stats.TotalEthSpent) * 100

	return stats
}

// RankByMultiple orders the whole ledger by profit multiple including gas,
// descending. Ties keep classification order.
func RankByMultiple(c *Classification) []Ranked {
	return rank(c, func(a, b *model.TokenLedger) bool {
		return a.ProfitInXIncludingGas > b.ProfitInXIncludingGas
	})
}

// RankByProfit orders by absolute profit including gas, descending.
func RankByProfit(c *Classification) []Ranked {
	return rank(c, func(a, b *model.TokenLedger) bool {
		return a.ProfitLossIncludingGas > b.ProfitLossIncludingGas
	})
}

// RankByTradeCount orders by buys+sells, descending.
func RankByTradeCount(c *Classification) []Ranked {
	return rank(c, func(a, b *model.TokenLedger) bool {
		return a.TradeCount() > b.TradeCount()
	})
}

func rank(c *Classification, less func(a, b *model.TokenLedger) bool) []Ranked {
	out := make([]Ranked, 0, len(c.Order))
	for _, symbol := range c.Order {
		out = append(out, Ranked{Symbol: symbol, Ledger: c.Ledgers[symbol]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i].Ledger, out[j].Ledger)
	})
	return out
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// weekdayMode returns the most common weekday (Monday=0) of the given unix
// timestamps. Ties resolve to the weekday seen first.
func weekdayMode(times []int64) int {
	counts := make(map[int]int)
	var order []int
	for _, ts := range times {
		day := (int(time.Unix(ts, 0).UTC().Weekday()) + 6) % 7
		if _, seen := counts[day]; !seen {
			order = append(order, day)
		}
		counts[day]++
	}
	best, bestCount := 0, -1
	for _, day := range order {
		if counts[day] > bestCount {
			best, bestCount = day, counts[day]
		}
	}
	return best
}

// activeDays is the whole-day span between the earliest and latest
// first-transaction times.
func activeDays(times []int64) int {
	if len(times) == 0 {
		return 0
	}
	min, max := times[0], times[0]
	for _, ts := range times[1:] {
		if ts < min {
			min = ts
		}
		if ts > max {
			max = ts
		}
	}
	return int((max - min) / 86400)
}
