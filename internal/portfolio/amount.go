package portfolio

import (
	"fmt"
	"math/big"
	"strconv"
)

const (
	// NativeSymbol is the chain's base currency symbol. Native amounts
	// always use an 18-decimal exponent.
	NativeSymbol   = "ETH"
	nativeDecimals = 18

	// wrappedNativeName is the token name the explorer reports for the
	// wrapped form of the native asset; both legs normalize it away.
	wrappedNativeName = "Wrapped Ether"

	// placeholderToken marks DEX liquidity positions, not tradable assets.
	placeholderToken = "Uniswap V2"

	// dustThreshold is the minimum normalized native amount for a swap leg
	// to count. Legs at or above the threshold are kept.
	dustThreshold = 0.01

	burnAddress = "0x0000000000000000000000000000000000000000"
)

// normalizeAmount converts a raw smallest-unit decimal string into a float
// scaled down by 10^decimals.
func normalizeAmount(raw string, decimals int) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty amount")
	}
	value, ok := new(big.Float).SetString(raw)
	if !ok {
		return 0, fmt.Errorf("parse amount %q", raw)
	}
	if decimals < 0 {
		return 0, fmt.Errorf("negative decimals %d", decimals)
	}
	exp := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	out, _ := new(big.Float).Quo(value, new(big.Float).SetInt(exp)).Float64()
	return out, nil
}

// normalizeTokenAmount scales a token amount by its reported decimal field.
func normalizeTokenAmount(raw, tokenDecimal string) (float64, error) {
	decimals, err := strconv.Atoi(tokenDecimal)
	if err != nil {
		return 0, fmt.Errorf("parse token decimal %q: %w", tokenDecimal, err)
	}
	return normalizeAmount(raw, decimals)
}

// gasCostEth computes gasPrice x gasUsed in native units.
func gasCostEth(gasPrice, gasUsed string) (float64, error) {
	price, ok := new(big.Int).SetString(gasPrice, 10)
	if !ok {
		return 0, fmt.Errorf("parse gas price %q", gasPrice)
	}
	used, ok := new(big.Int).SetString(gasUsed, 10)
	if !ok {
		return 0, fmt.Errorf("parse gas used %q", gasUsed)
	}
	wei := new(big.Int).Mul(price, used)
	exp := new(big.Int).Exp(big.NewInt(10), big.NewInt(nativeDecimals), nil)
	out, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), new(big.Float).SetInt(exp)).Float64()
	return out, nil
}

func parseUnix(ts string) int64 {
	v, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
