package entity

// TokenMetadata describes a Solana mint as published by a token registry or on-chain metadata.
type TokenMetadata struct {
	Mint     string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	LogoURI  string `json:"logoURI"`
	Decimals uint8  `json:"decimals"`
	ChainID  int    `json:"chainId"`
}

// Market points at a Serum order book for a symbol.
type Market struct {
	Name       string `yaml:"name" json:"name"`
	Address    string `yaml:"address" json:"address"`
	ProgramID  string `yaml:"programId" json:"programId"`
	Deprecated bool   `yaml:"deprecated" json:"deprecated"`
}
