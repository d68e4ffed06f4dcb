package provider

import (
	"context"
	"path/filepath"
	"testing"

	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/infrastructure/configloader"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type namedFetcher entity.ChainID

func (n namedFetcher) Chain() entity.ChainID { return entity.ChainID(n) }

func (n namedFetcher) FetchBalance(context.Context, string, string) (*entity.ParsedTokenAccount, error) {
	return &entity.ParsedTokenAccount{}, nil
}

func TestBalanceFetchersFor(t *testing.T) {
	f := BalanceFetchers{
		Ethereum: namedFetcher(entity.ChainEthereum),
		BSC:      namedFetcher(entity.ChainBSC),
		Solana:   namedFetcher(entity.ChainSolana),
	}

	for _, chain := range []entity.ChainID{entity.ChainEthereum, entity.ChainBSC, entity.ChainSolana} {
		got, err := f.For(chain)
		require.NoError(t, err)
		assert.Equal(t, chain, got.Chain())
	}

	_, err := f.For(entity.ChainTerra)
	assert.ErrorIs(t, err, entity.ErrUnsupportedChain)
	_, err = f.For(entity.ChainID(42))
	assert.ErrorIs(t, err, entity.ErrUnsupportedChain)
}

func defaultConfig(t *testing.T) *configloader.Config {
	t.Helper()
	cfg, err := configloader.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	return cfg
}

func TestNewContainerWiresEveryChain(t *testing.T) {
	c, err := NewContainer(defaultConfig(t), zap.NewNop(), Options{Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)

	require.NotNil(t, c.Metrics)
	for _, chain := range entity.TVLPriority {
		fetcher, err := c.Fetchers.For(chain)
		require.NoError(t, err)
		assert.Equal(t, chain, fetcher.Chain())

		_, ok := c.TVL.ChainState(chain)
		assert.True(t, ok)
	}

	_, err = c.Wrapped.CreateWrapped(context.Background(), entity.ChainSolana, "payer", nil)
	assert.ErrorIs(t, err, entity.ErrUnsupportedChain)
}

func TestNewContainerWithSigner(t *testing.T) {
	signer := solana.NewWallet().PrivateKey
	c, err := NewContainer(defaultConfig(t), zap.NewNop(), Options{Signer: signer})
	require.NoError(t, err)
	assert.Nil(t, c.Metrics)

	_, err = c.Wrapped.CreateWrapped(context.Background(), entity.ChainSolana, "not-a-key", nil)
	assert.ErrorIs(t, err, entity.ErrInvalidAddress)
}

func TestNewContainerRequiresConfig(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop(), Options{})
	assert.Error(t, err)
}
