package pricestore

import (
	"context"
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"bridge_tvl/internal/domain/entity"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAccounts struct {
	mu    sync.Mutex
	data  map[solana.PublicKey][]byte
	calls int
}

func (f *fakeAccounts) GetMultipleAccountsData(_ context.Context, keys []solana.PublicKey) ([][]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = f.data[k]
	}
	return out, nil
}

func marketAccount(m MarketState) []byte {
	data := make([]byte, 388)
	copy(data, "serum")
	copy(data[marketBaseMint:], m.BaseMint[:])
	copy(data[marketQuoteMint:], m.QuoteMint[:])
	copy(data[marketBids:], m.Bids[:])
	copy(data[marketAsks:], m.Asks[:])
	binary.LittleEndian.PutUint64(data[marketBaseLotSize:], m.BaseLotSize)
	binary.LittleEndian.PutUint64(data[marketQuoteLotSize:], m.QuoteLotSize)
	return data
}

// slabAccount lays out one leaf per price followed by a free node.
func slabAccount(prices ...uint64) []byte {
	nodes := len(prices) + 1
	data := make([]byte, slabNodesOffset+nodes*slabNodeSize)
	binary.LittleEndian.PutUint32(data[slabBumpIndex:], uint32(nodes))
	for i, p := range prices {
		off := slabNodesOffset + i*slabNodeSize
		binary.LittleEndian.PutUint32(data[off:], slabLeafTag)
		binary.LittleEndian.PutUint64(data[off+8:], uint64(i+1))
		binary.LittleEndian.PutUint64(data[off+16:], p)
	}
	free := slabNodesOffset + len(prices)*slabNodeSize
	binary.LittleEndian.PutUint32(data[free:], 3)
	binary.LittleEndian.PutUint64(data[free+16:], 999999999)
	return data
}

func mintAccount(decimals uint8) []byte {
	data := make([]byte, 82)
	data[mintDecimalsOffset] = decimals
	return data
}

func newMarketFixture(bids, asks []uint64) (entity.Market, *fakeAccounts) {
	state := MarketState{
		BaseMint:     solana.NewWallet().PublicKey(),
		QuoteMint:    solana.NewWallet().PublicKey(),
		Bids:         solana.NewWallet().PublicKey(),
		Asks:         solana.NewWallet().PublicKey(),
		BaseLotSize:  100000000,
		QuoteLotSize: 100,
	}
	marketKey := solana.NewWallet().PublicKey()
	accounts := &fakeAccounts{data: map[solana.PublicKey][]byte{
		marketKey:       marketAccount(state),
		state.Bids:      slabAccount(bids...),
		state.Asks:      slabAccount(asks...),
		state.BaseMint:  mintAccount(9),
		state.QuoteMint: mintAccount(6),
	}}
	return entity.Market{Name: "SOL/USDC", Address: marketKey.String()}, accounts
}

func TestDecodeMarket(t *testing.T) {
	want := MarketState{
		BaseMint:     solana.NewWallet().PublicKey(),
		QuoteMint:    solana.NewWallet().PublicKey(),
		Bids:         solana.NewWallet().PublicKey(),
		Asks:         solana.NewWallet().PublicKey(),
		BaseLotSize:  7,
		QuoteLotSize: 11,
	}
	got, err := DecodeMarket(marketAccount(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = DecodeMarket(make([]byte, 100))
	assert.Error(t, err)
}

func TestSlabPricesSkipsNonLeafNodes(t *testing.T) {
	prices, err := SlabPrices(slabAccount(20000, 20500))
	require.NoError(t, err)
	assert.Equal(t, []uint64{20000, 20500}, prices)

	_, err = SlabPrices([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestLotsToPrice(t *testing.T) {
	m := MarketState{BaseLotSize: 100000000, QuoteLotSize: 100}
	assert.Equal(t, "20.5", LotsToPrice(20500, m, 9, 6).String())
	assert.True(t, LotsToPrice(1, MarketState{}, 9, 6).IsZero())
}

func TestSerumMarketPriceMidpoint(t *testing.T) {
	market, accounts := newMarketFixture([]uint64{20000, 20500}, []uint64{21500, 21000})
	src := NewSerumPriceSource(accounts, time.Minute, zap.NewNop())

	price, err := src.MarketPrice(context.Background(), market)
	require.NoError(t, err)
	assert.InDelta(t, 20.75, price, 1e-9)

	again, err := src.MarketPrice(context.Background(), market)
	require.NoError(t, err)
	assert.Equal(t, price, again)
	assert.Equal(t, 2, accounts.calls)
}

func TestSerumMarketPriceEmptyBook(t *testing.T) {
	market, accounts := newMarketFixture([]uint64{20000}, nil)
	src := NewSerumPriceSource(accounts, time.Minute, zap.NewNop())

	_, err := src.MarketPrice(context.Background(), market)
	assert.ErrorIs(t, err, ErrEmptyBook)
}

func TestSerumMarketPriceMissingMarket(t *testing.T) {
	src := NewSerumPriceSource(&fakeAccounts{data: map[solana.PublicKey][]byte{}}, time.Minute, zap.NewNop())

	_, err := src.MarketPrice(context.Background(), entity.Market{Address: solana.NewWallet().PublicKey().String()})
	assert.ErrorIs(t, err, entity.ErrNoMarket)

	_, err = src.MarketPrice(context.Background(), entity.Market{Address: "not-base58!"})
	assert.ErrorIs(t, err, entity.ErrNoMarket)
}

func TestMarketTable(t *testing.T) {
	table := NewMarketTable(map[string]entity.Market{
		"sol": {Name: "SOL/USDC", Address: "9wFFyRfZBsuAha4YcuxcXLKwMxJR43S7fPfQLusDBzvT"},
		"OLD": {Name: "OLD/USDC", Address: "x", Deprecated: true},
	})
	m, ok := table.MarketForSymbol("SOL")
	require.True(t, ok)
	assert.Equal(t, "SOL/USDC", m.Name)

	_, ok = table.MarketForSymbol("OLD")
	assert.False(t, ok)
	_, ok = table.MarketForSymbol("")
	assert.False(t, ok)
	assert.Equal(t, 1, table.Len())
}
