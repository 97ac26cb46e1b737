// Package report renders wallet summaries as human-readable text.
package report

import (
	"fmt"
	"strings"

	"tokenfolio/internal/model"
)

const disclaimer = "Figures only cover tokens swapped against ETH; transfers in from other wallets are not counted as buys."

// FormatSummary renders the full trading summary as a plain-text report.
func FormatSummary(s *model.WalletSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Wallet %s\n", s.Address)
	fmt.Fprintf(&b, "https://etherscan.io/address/%s\n\n", s.Address)

	if s.MostActiveDay != "" {
		fmt.Fprintf(&b, "Most active day: %s\n\n", s.MostActiveDay)
	}

	fmt.Fprintf(&b, "Tokens purchased: %d\n", s.Tokens.Purchased)
	fmt.Fprintf(&b, "  profitable:   %d (%.1f%%)\n", s.Tokens.Profitable, s.Tokens.ProfitablePct)
	fmt.Fprintf(&b, "  unprofitable: %d (%.1f%%)\n\n", s.Tokens.Unprofitable, s.Tokens.UnprofitablePct)

	fmt.Fprintf(&b, "ETH spent:  %.4f ($%.2f)\n", s.Transactions.EthSpent, s.Transactions.EthSpentUSD)
	fmt.Fprintf(&b, "ETH gained: %.4f ($%.2f)\n\n", s.Transactions.EthGained, s.Transactions.EthGainedUSD)

	fmt.Fprintf(&b, "Avg spend per token: %.4f ETH ($%.2f)\n", s.Averages.SpendPerToken, s.Averages.SpendPerTokenUSD)
	fmt.Fprintf(&b, "Avg gain per token:  %.4f ETH ($%.2f)\n", s.Averages.GainPerToken, s.Averages.GainPerTokenUSD)
	fmt.Fprintf(&b, "Avg gas per token:   %.4f ETH ($%.2f)\n", s.Averages.GasPerToken, s.Averages.GasPerTokenUSD)
	fmt.Fprintf(&b, "Median multiple:     %.2fx\n", s.Averages.Multiple)
	fmt.Fprintf(&b, "Avg bag sold per sell: %.1f%%\n\n", s.Averages.BagSoldPct)

	fmt.Fprintf(&b, "Profit rating: %.1f%%\n", s.Profits.Rating)
	fmt.Fprintf(&b, "Net profit:    %.1f%%\n", s.Profits.Net)
	fmt.Fprintf(&b, "Success ratio: %.1f%%\n\n", s.Profits.SuccessRatio)

	fmt.Fprintf(&b, "Profit/loss: %.4f ETH ($%.2f), ROI %.1f%%\n", s.ProfitLoss.Eth, s.ProfitLoss.USD, s.ProfitLoss.ROI)

	writeHighlights(&b, "Top tokens by multiple", s.TopByMultiple)
	writeHighlights(&b, "Top tokens by profit", s.TopByProfit)
	writeHighlights(&b, "Top tokens by trade count", s.TopByTrades)

	b.WriteString("\n")
	b.WriteString(disclaimer)
	b.WriteString("\n")

	return b.String()
}

func writeHighlights(b *strings.Builder, title string, entries []model.TokenHighlight) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for i, entry := range entries {
		fmt.Fprintf(b, "%d. %s  %.2fx\n", i+1, entry.Name, entry.Multiple)
		fmt.Fprintf(b, "   buys %d / sells %d, spent %.4f ETH, gained %.4f ETH\n",
			entry.Buys, entry.Sells, entry.EthSpent, entry.EthGained)
		fmt.Fprintf(b, "   sold %.1f%%, holding %.1f%%\n", entry.SoldPct, entry.HeldPct)
		if entry.ContractAddress != "" {
			fmt.Fprintf(b, "   https://dexscreener.com/ethereum/%s\n", entry.ContractAddress)
		}
	}
}

// FormatBehavior renders the holding-habit report as plain text.
func FormatBehavior(r *model.BehaviorReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Tokens traded: %d\n", r.TotalTokens)
	fmt.Fprintf(&b, "Profitable sales:   %d\n", r.ProfitableSales)
	fmt.Fprintf(&b, "Unprofitable sales: %d\n", r.UnprofitableSales)
	fmt.Fprintf(&b, "Median hold: %s\n", r.MedianHoldTime)

	if r.BestTrade != nil {
		fmt.Fprintf(&b, "\nBest trade: %s, spent %.4f ETH, gained %.4f ETH (+%.4f)\n",
			r.BestTrade.Token, r.BestTrade.BuySpent, r.BestTrade.SellGain, r.BestTrade.Profit)
	}
	if r.LongestHold != nil {
		fmt.Fprintf(&b, "Longest profitable hold:  %s (%s)\n", r.LongestHold.HoldTime, r.LongestHold.Token)
	}
	if r.ShortestHold != nil {
		fmt.Fprintf(&b, "Shortest profitable hold: %s (%s)\n", r.ShortestHold.HoldTime, r.ShortestHold.Token)
	}

	var styles []string
	for _, style := range []string{
		"High-Frequency Trader", "Scalper", "Day Trader", "Swing Trader",
		"Short-Term Trader", "Mid-Term Trader", "Long-Term Trader", "Buy and Hold Investor",
	} {
		if n := len(r.Styles[style]); n > 0 {
			styles = append(styles, fmt.Sprintf("%s: %d", style, n))
		}
	}
	if len(styles) > 0 {
		fmt.Fprintf(&b, "\nTrading styles: %s\n", strings.Join(styles, ", "))
	}
	if len(r.ActiveTimeWindows) > 0 {
		fmt.Fprintf(&b, "Most active hours (UTC): %s\n", strings.Join(r.ActiveTimeWindows, ", "))
	}

	return b.String()
}
