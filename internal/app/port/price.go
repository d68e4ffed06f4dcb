package port

import (
	"context"

	"bridge_tvl/internal/domain/entity"
)

// TokenRegistry resolves mint addresses to token metadata.
type TokenRegistry interface {
	Tokens(ctx context.Context) (map[string]entity.TokenMetadata, error)
}

// MetadataResolver returns metadata for the given mints; mints it cannot resolve are absent from the map.
type MetadataResolver interface {
	Metadata(ctx context.Context, mints []string) (map[string]entity.TokenMetadata, error)
}

// MarketTable maps a token symbol to its Serum market.
type MarketTable interface {
	MarketForSymbol(symbol string) (entity.Market, bool)
}

// MarketPriceSource returns the fiat price of one unit of a market's base token.
type MarketPriceSource interface {
	MarketPrice(ctx context.Context, market entity.Market) (float64, error)
}

// MintPriceSource prices a mint directly, without a market table.
type MintPriceSource interface {
	MintPrice(ctx context.Context, mint string) (float64, error)
}

// BatchPricer prices a batch of mints. Every requested mint is present in the
// result; mints without a price map to nil.
type BatchPricer interface {
	Prices(ctx context.Context, mints []string) (map[string]*float64, error)
}
