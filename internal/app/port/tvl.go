package port

import (
	"context"

	"bridge_tvl/internal/domain/entity"
)

// TVLSource produces the bridge-custodied holdings of a single chain.
type TVLSource interface {
	Chain() entity.ChainID
	FetchTVL(ctx context.Context) ([]entity.TVLEntry, error)
}

// HoldingsIndexer lists token holdings of an address through a third-party indexer.
type HoldingsIndexer interface {
	GetHoldings(ctx context.Context, chain entity.ChainID, address string) ([]entity.IndexedHolding, error)
}

// CustodyAccountLister enumerates SPL token accounts owned by an address.
type CustodyAccountLister interface {
	GetTokenAccounts(ctx context.Context, owner string) ([]entity.ParsedTokenAccount, error)
}

// NativeBalanceReader returns the native coin balances of a Terra address.
type NativeBalanceReader interface {
	NativeBalances(ctx context.Context, address string) ([]entity.Coin, error)
}

// SwapRateSource returns the current swap-rate table quoted in uusd.
type SwapRateSource interface {
	SwapRates(ctx context.Context) ([]entity.SwapRate, error)
}
