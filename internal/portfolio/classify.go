package portfolio

import (
	"math"
	"strings"
	"time"

	"tokenfolio/internal/model"
)

const txTimeLayout = "2006-01-02 15:04:05"

// Stablecoin contracts on mainnet. A token whose swaps are denominated
// against these never touches ETH, so it cannot be priced in ETH terms.
var stablecoinContracts = map[string]struct{}{
	"0xdac17f958d2ee523a2206206994597c13d831ec7": {}, // USDT
	"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": {}, // USDC
}

// Classification is the partition of reconstructed swaps into the primary
// per-token ledger and the skipped bucket. Order slices preserve the
// insertion order of the underlying swap set.
type Classification struct {
	Ledgers      map[string]*model.TokenLedger
	Order        []string
	Skipped      map[string]*TokenSwaps
	SkippedOrder []string
}

// Ledger returns the ledger for a token symbol.
func (c *Classification) Ledger(symbol string) *model.TokenLedger {
	return c.Ledgers[symbol]
}

// Classify buckets every reconstructed swap as a buy or sell of its grouping
// token and derives per-token totals. Tokens are skipped, not failed, when:
// no swap involves ETH on either leg, only sells were observed (no cost
// basis), or more was sold than ever bought (holdings predating the fetched
// window). The input set is not mutated.
func Classify(set *SwapSet) *Classification {
	out := &Classification{
		Ledgers: make(map[string]*model.TokenLedger),
		Skipped: make(map[string]*TokenSwaps),
	}

	for _, symbol := range set.Symbols() {
		swaps := set.Token(symbol)

		if !nativeInvolved(swaps) {
			out.skip(symbol, swaps)
			continue
		}

		ledger := buildLedger(symbol, swaps)

		if ledger.BuyCount == 0 && ledger.SellCount > 0 {
			out.skip(symbol, swaps)
			continue
		}

		if ledger.BuyCount > 0 && ledger.SellCount > 0 {
			attachSellMetrics(ledger)
			if *ledger.PercentHeld < 0 {
				out.skip(symbol, swaps)
				continue
			}
		}

		out.Ledgers[symbol] = ledger
		out.Order = append(out.Order, symbol)
	}

	return out
}

func (c *Classification) skip(symbol string, swaps *TokenSwaps) {
	c.Skipped[symbol] = swaps
	c.SkippedOrder = append(c.SkippedOrder, symbol)
}

// nativeInvolved reports whether every primary swap for the token has ETH on
// one leg and none is denominated against a stablecoin contract.
func nativeInvolved(swaps *TokenSwaps) bool {
	for _, hash := range swaps.Hashes() {
		primary := swaps.Group(hash).Primary()
		if primary.GainedToken != NativeSymbol && primary.SwappedToken != NativeSymbol {
			return false
		}
		if _, ok := stablecoinContracts[strings.ToLower(primary.SwappedAddress)]; ok {
			return false
		}
	}
	return true
}

func buildLedger(symbol string, swaps *TokenSwaps) *model.TokenLedger {
	ledger := &model.TokenLedger{
		Token:       symbol,
		FirstTxUnix: math.MaxInt64,
		LastTxUnix:  math.MinInt64,
	}

	for _, hash := range swaps.Hashes() {
		swap := swaps.Group(hash).Primary()

		if swap.GainedToken == NativeSymbol {
			swap.Side = model.SideSell
			ledger.Sells = append(ledger.Sells, swap)
			ledger.SellCount++
			ledger.TokensSold += swap.SwappedAmount
			ledger.EthGained += swap.GainedAmount
			ledger.SellGas += swap.GasCost
		} else {
			swap.Side = model.SideBuy
			ledger.Buys = append(ledger.Buys, swap)
			ledger.BuyCount++
			ledger.TokensBought += swap.GainedAmount
			ledger.EthSpent += swap.SwappedAmount
			ledger.BuyGas += swap.GasCost
		}

		ledger.ContractAddress = swap.SwappedAddress
		if swap.Timestamp < ledger.FirstTxUnix {
			ledger.FirstTxUnix = swap.Timestamp
		}
		if swap.Timestamp > ledger.LastTxUnix {
			ledger.LastTxUnix = swap.Timestamp
		}
	}

	ledger.TotalGas = ledger.BuyGas + ledger.SellGas
	ledger.ProfitLossWithoutGas = ledger.EthGained - ledger.EthSpent
	ledger.ProfitLossIncludingGas = ledger.EthGained - ledger.EthSpent - ledger.BuyGas - ledger.SellGas
	if ledger.EthSpent != 0 {
		ledger.ProfitInXWithoutGas = ledger.EthGained / ledger.EthSpent
		ledger.ProfitInXIncludingGas = (ledger.EthGained - ledger.BuyGas - ledger.SellGas) / ledger.EthSpent
	}
	ledger.FirstTxTime = time.Unix(ledger.FirstTxUnix, 0).UTC().Format(txTimeLayout)
	ledger.LastTxTime = time.Unix(ledger.LastTxUnix, 0).UTC().Format(txTimeLayout)

	return ledger
}

// attachSellMetrics derives the sold/held percentages for tokens that have
// both buys and sells.
func attachSellMetrics(ledger *model.TokenLedger) {
	var pctSum float64
	for _, sell := range ledger.Sells {
		if ledger.TokensBought != 0 {
			pctSum += sell.SwappedAmount / ledger.TokensBought * 100
		}
	}
	avg := pctSum / float64(len(ledger.Sells))

	var sold, held float64
	if ledger.TokensBought != 0 {
		sold = ledger.TokensSold / ledger.TokensBought * 100
		held = (ledger.TokensBought - ledger.TokensSold) / ledger.TokensBought * 100
	}

	ledger.AvgPercentSoldPerSell = &avg
	ledger.PercentSold = &sold
	ledger.PercentHeld = &held
	ledger.FirstBuyHash = ledger.Buys[0].Hash
	ledger.LastSellHash = ledger.Sells[len(ledger.Sells)-1].Hash
}
