package model

// NormalTx is a native-currency transfer as returned by the explorer's
// txlist feed. All numeric fields arrive as decimal strings.
type NormalTx struct {
	BlockNumber string `json:"blockNumber"`
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	TimeStamp   string `json:"timeStamp"`
	GasPrice    string `json:"gasPrice"`
	GasUsed     string `json:"gasUsed"`
	IsError     string `json:"isError"`
}

// InternalTx is an internal (message-call) transfer from the txlistinternal
// feed. Internal transfers carry no gas fields of their own.
type InternalTx struct {
	BlockNumber string `json:"blockNumber"`
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	TimeStamp   string `json:"timeStamp"`
	IsError     string `json:"isError"`
}

// TokenTx is an ERC-20 transfer from the tokentx feed.
type TokenTx struct {
	BlockNumber     string `json:"blockNumber"`
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	Value           string `json:"value"`
	TimeStamp       string `json:"timeStamp"`
	GasPrice        string `json:"gasPrice"`
	GasUsed         string `json:"gasUsed"`
	TokenName       string `json:"tokenName"`
	TokenSymbol     string `json:"tokenSymbol"`
	TokenDecimal    string `json:"tokenDecimal"`
	ContractAddress string `json:"contractAddress"`
}
