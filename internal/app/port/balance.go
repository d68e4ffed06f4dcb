package port

import (
	"context"

	"bridge_tvl/internal/domain/entity"
)

// BalanceFetcher reads one wallet's holding of one asset on a single chain.
type BalanceFetcher interface {
	Chain() entity.ChainID
	FetchBalance(ctx context.Context, asset, wallet string) (*entity.ParsedTokenAccount, error)
}

// BalanceFetcherSet resolves the fetcher of a chain. Unknown chains yield entity.ErrUnsupportedChain.
type BalanceFetcherSet interface {
	For(chain entity.ChainID) (BalanceFetcher, error)
}
