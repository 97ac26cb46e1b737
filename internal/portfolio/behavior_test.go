package portfolio

import (
	"testing"

	"tokenfolio/internal/model"
)

func tradedLedger(token string, buyTs, sellTs int64, ethSpent, tokensBought, tokensSold, ethGained float64) *model.TokenLedger {
	return &model.TokenLedger{
		Token: token,
		Buys: []model.SwapEvent{{
			SwappedToken:  "ETH",
			SwappedAmount: ethSpent,
			GainedToken:   token,
			GainedAmount:  tokensBought,
			Timestamp:     buyTs,
			Hash:          "0xbuy-" + token,
		}},
		Sells: []model.SwapEvent{{
			SwappedToken:  token,
			SwappedAmount: tokensSold,
			GainedToken:   "ETH",
			GainedAmount:  ethGained,
			Timestamp:     sellTs,
			Hash:          "0xsell-" + token,
		}},
		BuyCount:  1,
		SellCount: 1,
	}
}

func TestAnalyzeBehaviorPairsBuysWithLaterSells(t *testing.T) {
	c := classification(
		tradedLedger("PEPE", 1700000000, 1700007200, 1.0, 1000, 950, 1.5),
	)

	report := AnalyzeBehavior(c, 0)
	if report.ProfitableSales != 1 {
		t.Fatalf("profitable sales = %d, want 1", report.ProfitableSales)
	}
	if report.BestTrade == nil {
		t.Fatal("best trade missing")
	}
	if !approxEqual(report.BestTrade.Profit, 0.5) {
		t.Fatalf("best trade profit = %v, want 0.5", report.BestTrade.Profit)
	}

	// 95% sold after a two hour hold
	scalpers := report.Styles["Scalper"]
	if len(scalpers) != 1 {
		t.Fatalf("scalper trades = %d, want 1", len(scalpers))
	}
	if scalpers[0].Token != "PEPE" {
		t.Fatalf("scalper token = %q", scalpers[0].Token)
	}
}

func TestAnalyzeBehaviorMedianHold(t *testing.T) {
	c := classification(
		tradedLedger("PEPE", 1700000000, 1700007200, 1.0, 1000, 950, 1.5),
		tradedLedger("WOJAK", 1700000000, 1700000100, 0.5, 200, 200, 0.4),
	)

	report := AnalyzeBehavior(c, 0)
	// holds of 7200s and 100s, both fully sold
	if report.MedianHoldSeconds != 3650 {
		t.Fatalf("median hold = %d, want 3650", report.MedianHoldSeconds)
	}
	if report.UnprofitableSales != 1 {
		t.Fatalf("unprofitable sales = %d, want 1", report.UnprofitableSales)
	}
	if got := len(report.Styles["High-Frequency Trader"]); got != 1 {
		t.Fatalf("high-frequency trades = %d, want 1", got)
	}
}

func TestAnalyzeBehaviorHonorsCutoff(t *testing.T) {
	c := classification(
		tradedLedger("PEPE", 1700000000, 1700007200, 1.0, 1000, 950, 1.5),
	)

	report := AnalyzeBehavior(c, 1700001000)
	if report.ProfitableSales != 0 {
		t.Fatalf("profitable sales = %d, want 0 with buy before cutoff", report.ProfitableSales)
	}
}

func TestAnalyzeBehaviorSkipsPartialSells(t *testing.T) {
	// only half the bag sold: no style assignment, no gated hold
	c := classification(
		tradedLedger("PEPE", 1700000000, 1700007200, 1.0, 1000, 500, 1.5),
	)

	report := AnalyzeBehavior(c, 0)
	if report.MedianHoldSeconds != 0 {
		t.Fatalf("median hold = %d, want 0", report.MedianHoldSeconds)
	}
	for style, trades := range report.Styles {
		if len(trades) != 0 {
			t.Fatalf("style %q assigned for partial sell", style)
		}
	}
	// the sale still counts toward profitability
	if report.ProfitableSales != 1 {
		t.Fatalf("profitable sales = %d, want 1", report.ProfitableSales)
	}
}

func TestStyleForHold(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{1800, "High-Frequency Trader"},
		{2 * 3600, "Scalper"},
		{5 * 3600, "Day Trader"},
		{10 * 3600, "Swing Trader"},
		{20 * 3600, "Short-Term Trader"},
		{40 * 3600, "Mid-Term Trader"},
		{3 * 24 * 3600, ""},
		{8 * 24 * 3600, "Buy and Hold Investor"},
	}
	for _, tc := range cases {
		if got := styleForHold(tc.seconds); got != tc.want {
			t.Fatalf("styleForHold(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "0 seconds"},
		{59, "59 seconds"},
		{3600, "1 hours"},
		{90061, "1 days 1 hours 1 minutes 1 seconds"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.seconds); got != tc.want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
