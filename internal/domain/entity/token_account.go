package entity

// ParsedTokenAccount is a single wallet's holding of one asset, normalized across chains.
// UIAmount equals RawAmount / 10^Decimals; UIAmountString is the exact decimal rendering.
type ParsedTokenAccount struct {
	Address        string  `json:"publicKey"`
	MintOrContract string  `json:"mintKey"`
	RawAmount      string  `json:"amount"`
	Decimals       uint8   `json:"decimals"`
	UIAmount       float64 `json:"uiAmount"`
	UIAmountString string  `json:"uiAmountString"`
}
