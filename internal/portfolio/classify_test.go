package portfolio

import (
	"reflect"
	"testing"

	"tokenfolio/internal/model"
)

func buyEvent(hash string, ethSpent, tokensGained, gas float64, ts int64) model.SwapEvent {
	return model.SwapEvent{
		SwappedToken:   "ETH",
		SwappedAddress: testContract,
		SwappedAmount:  ethSpent,
		GainedToken:    "PEPE",
		GainedAmount:   tokensGained,
		GasCost:        gas,
		Timestamp:      ts,
		Hash:           hash,
	}
}

func sellEvent(hash string, tokensSold, ethGained, gas float64, ts int64) model.SwapEvent {
	return model.SwapEvent{
		SwappedToken:   "PEPE",
		SwappedAddress: testContract,
		SwappedAmount:  tokensSold,
		GainedToken:    "ETH",
		GainedAmount:   ethGained,
		GasCost:        gas,
		Timestamp:      ts,
		Hash:           hash,
	}
}

func TestClassifyDirections(t *testing.T) {
	set := newSwapSet()
	set.add("PEPE", "0xb1", buyEvent("0xb1", 1.0, 1000, 0.001, 1700000000))
	set.add("PEPE", "0xs1", sellEvent("0xs1", 900, 1.5, 0.001, 1700100000))

	c := Classify(set)
	ledger := c.Ledger("PEPE")
	if ledger == nil {
		t.Fatal("PEPE missing from ledger")
	}
	if ledger.BuyCount != 1 || ledger.SellCount != 1 {
		t.Fatalf("counts = %d buys / %d sells, want 1/1", ledger.BuyCount, ledger.SellCount)
	}
	if ledger.Buys[0].Side != model.SideBuy {
		t.Fatalf("buy side = %q", ledger.Buys[0].Side)
	}
	if ledger.Sells[0].Side != model.SideSell {
		t.Fatalf("sell side = %q", ledger.Sells[0].Side)
	}
}

func TestClassifyProfitFigures(t *testing.T) {
	set := newSwapSet()
	set.add("PEPE", "0xb1", buyEvent("0xb1", 1.0, 1000, 0.001, 1700000000))
	set.add("PEPE", "0xs1", sellEvent("0xs1", 900, 1.5, 0.001, 1700100000))

	ledger := Classify(set).Ledger("PEPE")
	if ledger == nil {
		t.Fatal("PEPE missing from ledger")
	}

	if !approxEqual(ledger.ProfitLossIncludingGas, 0.498) {
		t.Fatalf("profit including gas = %v, want 0.498", ledger.ProfitLossIncludingGas)
	}
	if !approxEqual(ledger.ProfitInXIncludingGas, 1.498) {
		t.Fatalf("multiple including gas = %v, want 1.498", ledger.ProfitInXIncludingGas)
	}
	if !approxEqual(ledger.ProfitLossWithoutGas, 0.5) {
		t.Fatalf("profit without gas = %v, want 0.5", ledger.ProfitLossWithoutGas)
	}
	if ledger.PercentSold == nil || !approxEqual(*ledger.PercentSold, 90) {
		t.Fatalf("percent sold = %v, want 90", ledger.PercentSold)
	}
	if ledger.PercentHeld == nil || !approxEqual(*ledger.PercentHeld, 10) {
		t.Fatalf("percent held = %v, want 10", ledger.PercentHeld)
	}
	if ledger.FirstTxTime != "2023-11-14 22:13:20" {
		t.Fatalf("first tx time = %q", ledger.FirstTxTime)
	}
}

func TestClassifySkipsSellOnlyToken(t *testing.T) {
	set := newSwapSet()
	set.add("PEPE", "0xs1", sellEvent("0xs1", 900, 1.5, 0.001, 1700100000))

	c := Classify(set)
	if len(c.Order) != 0 {
		t.Fatalf("sell-only token classified: %v", c.Order)
	}
	if _, ok := c.Skipped["PEPE"]; !ok {
		t.Fatal("sell-only token not in skipped bucket")
	}
}

func TestClassifySkipsOversoldToken(t *testing.T) {
	set := newSwapSet()
	set.add("PEPE", "0xb1", buyEvent("0xb1", 1.0, 100, 0.001, 1700000000))
	// sells more than was ever bought in the window
	set.add("PEPE", "0xs1", sellEvent("0xs1", 500, 1.5, 0.001, 1700100000))

	c := Classify(set)
	if len(c.Order) != 0 {
		t.Fatalf("oversold token classified: %v", c.Order)
	}
}

func TestClassifySkipsNonNativeDenomination(t *testing.T) {
	set := newSwapSet()
	ev := buyEvent("0xb1", 1.0, 1000, 0.001, 1700000000)
	ev.SwappedToken = "DAI"
	set.add("PEPE", "0xb1", ev)

	c := Classify(set)
	if len(c.Order) != 0 {
		t.Fatalf("token-to-token swap classified: %v", c.Order)
	}
}

func TestClassifySkipsStablecoinDenomination(t *testing.T) {
	set := newSwapSet()
	ev := sellEvent("0xs1", 900, 1.5, 0.001, 1700100000)
	ev.SwappedAddress = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
	set.add("USDT", "0xs1", ev)

	c := Classify(set)
	if len(c.Order) != 0 {
		t.Fatalf("stablecoin swap classified: %v", c.Order)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	set := newSwapSet()
	set.add("PEPE", "0xb1", buyEvent("0xb1", 1.0, 1000, 0.001, 1700000000))
	set.add("PEPE", "0xs1", sellEvent("0xs1", 900, 1.5, 0.001, 1700100000))
	set.add("WOJAK", "0xb2", buyEvent("0xb2", 0.5, 200, 0.002, 1700200000))

	first := Classify(set)
	second := Classify(set)

	if !reflect.DeepEqual(first.Order, second.Order) {
		t.Fatalf("order differs across runs: %v vs %v", first.Order, second.Order)
	}
	if !reflect.DeepEqual(first.Ledgers, second.Ledgers) {
		t.Fatal("ledgers differ across runs")
	}
}
