package model

// TokenCounts summarizes how many tokens the wallet traded and how many of
// them turned a profit.
type TokenCounts struct {
	Purchased       int     `json:"purchased"`
	Profitable      int     `json:"profitable"`
	ProfitablePct   float64 `json:"profitable_percentage"`
	Unprofitable    int     `json:"unprofitable"`
	UnprofitablePct float64 `json:"unprofitable_percentage"`
}

// EthTotals holds the wallet-wide spend and gain, gas included, in ETH and
// in the fiat unit at the current spot price.
type EthTotals struct {
	EthSpent     float64 `json:"eth_spent"`
	EthSpentUSD  float64 `json:"eth_spent_usd"`
	EthGained    float64 `json:"eth_gained"`
	EthGainedUSD float64 `json:"eth_gained_usd"`
}

// Averages holds per-token averages across the primary ledger.
type Averages struct {
	SpendPerToken    float64 `json:"spend_per_token"`
	SpendPerTokenUSD float64 `json:"spend_per_token_usd"`
	GainPerToken     float64 `json:"gain_per_token"`
	GainPerTokenUSD  float64 `json:"gain_per_token_usd"`
	Multiple         float64 `json:"xs"`
	GasPerToken      float64 `json:"gas_per_token"`
	GasPerTokenUSD   float64 `json:"gas_per_token_usd"`
	BagSoldPct       float64 `json:"bag_sold_percentage"`
}

// Profits holds the wallet-level profitability ratios.
type Profits struct {
	Rating       float64 `json:"rating"`
	Net          float64 `json:"net"`
	SuccessRatio float64 `json:"success_ratio"`
}

// ProfitLoss is the bottom line.
type ProfitLoss struct {
	Eth float64 `json:"eth"`
	USD float64 `json:"usd"`
	ROI float64 `json:"roi"`
}

// TokenHighlight is one entry of a ranked top list. Spend includes buy gas,
// gain is net of sell gas, matching the ledger's including-gas view.
type TokenHighlight struct {
	Name            string  `json:"name"`
	ContractAddress string  `json:"contract_address"`
	Buys            int     `json:"buys"`
	Sells           int     `json:"sells"`
	EthSpent        float64 `json:"eth_spent"`
	EthSpentUSD     float64 `json:"eth_spent_usd"`
	EthGained       float64 `json:"eth_gained"`
	EthGainedUSD    float64 `json:"eth_gained_usd"`
	Multiple        float64 `json:"xs"`
	SoldPct         float64 `json:"tokens_sold_percentage"`
	HeldPct         float64 `json:"tokens_left_percentage"`
}

// WalletSummary is the full trading summary returned to callers.
type WalletSummary struct {
	Address       string           `json:"address"`
	MostActiveDay string           `json:"most_active_day_of_week"`
	Tokens        TokenCounts      `json:"tokens"`
	Transactions  EthTotals        `json:"transactions"`
	Averages      Averages         `json:"averages"`
	Profits       Profits          `json:"profits"`
	ProfitLoss    ProfitLoss       `json:"profit_loss"`
	TopByMultiple []TokenHighlight `json:"top_x_tokens"`
	TopByProfit   []TokenHighlight `json:"top_profit_tokens"`
	TopByTrades   []TokenHighlight `json:"top_transaction_tokens"`
}
