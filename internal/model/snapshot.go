package model

import "time"

// WalletSnapshot is the cached raw transfer history for one wallet: the
// three explorer feeds plus the moment they were fetched. Snapshots are
// written and read wholesale; freshness is judged against FetchedAt.
type WalletSnapshot struct {
	Address   string       `json:"address"`
	FetchedAt time.Time    `json:"timestamp"`
	Normal    []NormalTx   `json:"tx_normal"`
	Internal  []InternalTx `json:"tx_internal"`
	Token     []TokenTx    `json:"tx_token"`
}
