package model

// Side marks the direction of a swap relative to the counter token.
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// SwapEvent is one reconstructed economic exchange: the wallet gave up
// SwappedToken and received GainedToken within a single transaction hash.
// Amounts are kept both raw (smallest unit, as reported) and normalized by
// the asset's decimal exponent.
type SwapEvent struct {
	SwappedToken   string   `json:"swappedToken"`
	SwappedAddress string   `json:"swappedTokenAddress"`
	SwappedRaw     string   `json:"swapAmount"`
	SwappedAmount  float64  `json:"swapWithDeci"`
	GainedToken    string   `json:"gainToken"`
	GainedRaw      string   `json:"gainAmount"`
	GainedAmount   float64  `json:"gainWithDeci"`
	GasCost        float64  `json:"gasFee"`
	Timestamp      int64    `json:"timeStamp"`
	Hash           string   `json:"hash"`
	TaxedRaw       string   `json:"taxed,omitempty"`
	TaxedTx        *TokenTx `json:"taxedTx,omitempty"`
	Side           Side     `json:"transactionType,omitempty"`
}
