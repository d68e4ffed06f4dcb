package service

import (
	"context"

	"bridge_tvl/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

type mockIndexer struct {
	mock.Mock
}

func (m *mockIndexer) GetHoldings(ctx context.Context, chain entity.ChainID, address string) ([]entity.IndexedHolding, error) {
	args := m.Called(ctx, chain, address)
	holdings, _ := args.Get(0).([]entity.IndexedHolding)
	return holdings, args.Error(1)
}

type mockNativeBalances struct {
	mock.Mock
}

func (m *mockNativeBalances) NativeBalances(ctx context.Context, address string) ([]entity.Coin, error) {
	args := m.Called(ctx, address)
	coins, _ := args.Get(0).([]entity.Coin)
	return coins, args.Error(1)
}

type mockSwapRates struct {
	mock.Mock
}

func (m *mockSwapRates) SwapRates(ctx context.Context) ([]entity.SwapRate, error) {
	args := m.Called(ctx)
	rates, _ := args.Get(0).([]entity.SwapRate)
	return rates, args.Error(1)
}

type mockAccountLister struct {
	mock.Mock
}

func (m *mockAccountLister) GetTokenAccounts(ctx context.Context, owner string) ([]entity.ParsedTokenAccount, error) {
	args := m.Called(ctx, owner)
	accounts, _ := args.Get(0).([]entity.ParsedTokenAccount)
	return accounts, args.Error(1)
}

type mockMetadata struct {
	mock.Mock
}

func (m *mockMetadata) Metadata(ctx context.Context, mints []string) (map[string]entity.TokenMetadata, error) {
	args := m.Called(ctx, mints)
	meta, _ := args.Get(0).(map[string]entity.TokenMetadata)
	return meta, args.Error(1)
}

type mockPricer struct {
	mock.Mock
}

func (m *mockPricer) Prices(ctx context.Context, mints []string) (map[string]*float64, error) {
	args := m.Called(ctx, mints)
	prices, _ := args.Get(0).(map[string]*float64)
	return prices, args.Error(1)
}

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) Tokens(ctx context.Context) (map[string]entity.TokenMetadata, error) {
	args := m.Called(ctx)
	tokens, _ := args.Get(0).(map[string]entity.TokenMetadata)
	return tokens, args.Error(1)
}

type mockMarketPrices struct {
	mock.Mock
}

func (m *mockMarketPrices) MarketPrice(ctx context.Context, market entity.Market) (float64, error) {
	args := m.Called(ctx, market)
	return args.Get(0).(float64), args.Error(1)
}

type mockMintPrices struct {
	mock.Mock
}

func (m *mockMintPrices) MintPrice(ctx context.Context, mint string) (float64, error) {
	args := m.Called(ctx, mint)
	return args.Get(0).(float64), args.Error(1)
}

type mockCreator struct {
	mock.Mock
}

func (m *mockCreator) Chain() entity.ChainID {
	return entity.ChainSolana
}

func (m *mockCreator) CreateWrapped(ctx context.Context, payer string, signedVAA []byte) (*entity.WrappedTransaction, error) {
	args := m.Called(ctx, payer, signedVAA)
	tx, _ := args.Get(0).(*entity.WrappedTransaction)
	return tx, args.Error(1)
}

type staticMarkets map[string]entity.Market

func (s staticMarkets) MarketForSymbol(symbol string) (entity.Market, bool) {
	m, ok := s[symbol]
	return m, ok
}
