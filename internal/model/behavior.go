package model

// HoldRecord points at the sell that ended a notable hold.
type HoldRecord struct {
	Token       string  `json:"token"`
	HoldSeconds int64   `json:"hold_seconds"`
	HoldTime    string  `json:"hold_time"`
	EthGained   float64 `json:"eth_gained"`
	Hash        string  `json:"hash"`
}

// TradeRecord is a matched buy/sell pair.
type TradeRecord struct {
	Token    string  `json:"token"`
	BuySpent float64 `json:"buy_price"`
	SellGain float64 `json:"sell_price"`
	BuyHash  string  `json:"hash_buy"`
	SellHash string  `json:"hash_sell"`
	Profit   float64 `json:"profit"`
	HoldTime string  `json:"hold_time,omitempty"`
}

// BehaviorReport summarizes holding habits across all matched buy/sell pairs.
type BehaviorReport struct {
	TotalTokens       int                      `json:"total_tokens"`
	ProfitableSales   int                      `json:"total_profitable_sales"`
	UnprofitableSales int                      `json:"total_unprofitable_sales"`
	MedianHoldSeconds int64                    `json:"median_hold_seconds"`
	MedianHoldTime    string                   `json:"average_hold_time"`
	LongestHold       *HoldRecord              `json:"longest_hold_before_profit,omitempty"`
	ShortestHold      *HoldRecord              `json:"shortest_hold_before_profit,omitempty"`
	BestTrade         *TradeRecord             `json:"best_trade,omitempty"`
	Styles            map[string][]TradeRecord `json:"trading_style_counter"`
	ActiveTimeWindows []string                 `json:"active_time_windows"`
}
