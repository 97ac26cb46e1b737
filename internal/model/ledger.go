package model

// TokenLedger accumulates all classified swaps for one counter token and the
// profit metrics derived from them. The percent fields are only meaningful
// for tokens that have both buys and sells and stay nil otherwise.
type TokenLedger struct {
	Token           string      `json:"token"`
	ContractAddress string      `json:"contractaddress"`
	Buys            []SwapEvent `json:"Buys"`
	Sells           []SwapEvent `json:"Sells"`
	BuyCount        int         `json:"noOfBuys"`
	SellCount       int         `json:"noOfSells"`

	FirstTxUnix int64  `json:"firstTxUnix"`
	LastTxUnix  int64  `json:"lastTxUnix"`
	FirstTxTime string `json:"firstTxTime"`
	LastTxTime  string `json:"lastTxTime"`

	TokensBought float64 `json:"tokensBought"`
	TokensSold   float64 `json:"tokensSold"`
	EthSpent     float64 `json:"totalEthSpent"`
	EthGained    float64 `json:"totalEthGained"`
	BuyGas       float64 `json:"buyGasTotal"`
	SellGas      float64 `json:"sellGasTotal"`
	TotalGas     float64 `json:"TotalGasTotal"`

	ProfitLossWithoutGas   float64 `json:"profitLossWithoutGas"`
	ProfitInXWithoutGas    float64 `json:"profitInXWithoutGas"`
	ProfitLossIncludingGas float64 `json:"profitLossIncludingGas"`
	ProfitInXIncludingGas  float64 `json:"profitInXIncludingGas"`

	AvgPercentSoldPerSell *float64 `json:"averagePercentOfTokensSoldPerSell,omitempty"`
	PercentSold           *float64 `json:"percentageTokensSold,omitempty"`
	PercentHeld           *float64 `json:"percentageTokensHeld,omitempty"`
	FirstBuyHash          string   `json:"firstBuyHashNumber,omitempty"`
	LastSellHash          string   `json:"lastSellHashNumber,omitempty"`
}

// TradeCount is the total number of classified swaps in the ledger.
func (l *TokenLedger) TradeCount() int {
	return l.BuyCount + l.SellCount
}
