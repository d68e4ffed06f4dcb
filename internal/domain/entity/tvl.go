package entity

import "time"

// TVLEntry is one asset held in bridge custody on its origin chain.
type TVLEntry struct {
	Logo          string   `json:"logo,omitempty"`
	Symbol        string   `json:"symbol,omitempty"`
	Name          string   `json:"name,omitempty"`
	Amount        string   `json:"amount"`
	TotalValue    *float64 `json:"totalValue,omitempty"`
	QuotePrice    *float64 `json:"quotePrice,omitempty"`
	AssetAddress  string   `json:"assetAddress"`
	OriginChainID ChainID  `json:"originChainId"`
	OriginChain   string   `json:"originChain"`
}

// TVLReport is the merged view over every chain. Unlike DataWrapper it may hold
// partial data together with the first per-chain error.
type TVLReport struct {
	IsFetching bool       `json:"isFetching"`
	Data       []TVLEntry `json:"data"`
	Error      string     `json:"error,omitempty"`
	ReceivedAt *time.Time `json:"receivedAt,omitempty"`
}

// IndexedHolding is one row of an address-holdings indexer response.
type IndexedHolding struct {
	Balance         string
	ContractAddress string
	Decimals        uint8
	Symbol          string
	Name            string
	LogoURL         string
	Quote           *float64
	QuoteRate       *float64
}

// Coin is a native Terra balance.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// SwapRate is the amount of Denom one unit of the quote denom buys.
type SwapRate struct {
	Denom    string `json:"denom"`
	SwapRate string `json:"swaprate"`
}
