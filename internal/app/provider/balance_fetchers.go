package provider

import (
	"context"
	"fmt"

	"bridge_tvl/internal/app/port"
	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/infrastructure/network/client"
)

// BalanceFetchers is the closed set of per-chain balance fetchers.
type BalanceFetchers struct {
	Ethereum port.BalanceFetcher
	BSC      port.BalanceFetcher
	Solana   port.BalanceFetcher
	Terra    port.BalanceFetcher
}

// For returns the fetcher of chain.
func (f BalanceFetchers) For(chain entity.ChainID) (port.BalanceFetcher, error) {
	var fetcher port.BalanceFetcher
	switch chain {
	case entity.ChainEthereum:
		fetcher = f.Ethereum
	case entity.ChainBSC:
		fetcher = f.BSC
	case entity.ChainSolana:
		fetcher = f.Solana
	case entity.ChainTerra:
		fetcher = f.Terra
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedChain, chain)
	}
	if fetcher == nil {
		return nil, fmt.Errorf("%w: no balance fetcher configured for %s", entity.ErrUnsupportedChain, chain)
	}
	return fetcher, nil
}

// lazyEVMFetcher dials the network on the first balance request.
type lazyEVMFetcher struct {
	clients *client.EVMClientProvider
	netDef  entity.NetworkDefinition
}

func newLazyEVMFetcher(clients *client.EVMClientProvider, netDef entity.NetworkDefinition) *lazyEVMFetcher {
	return &lazyEVMFetcher{clients: clients, netDef: netDef}
}

func (f *lazyEVMFetcher) Chain() entity.ChainID {
	return f.netDef.Chain
}

func (f *lazyEVMFetcher) FetchBalance(ctx context.Context, asset, wallet string) (*entity.ParsedTokenAccount, error) {
	c, err := f.clients.GetClient(f.netDef)
	if err != nil {
		return nil, err
	}
	return c.FetchBalance(ctx, asset, wallet)
}
