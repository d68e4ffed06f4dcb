package pricestore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"time"

	"bridge_tvl/internal/domain/entity"

	"github.com/gagliardetto/solana-go"
	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Serum v3 market account layout.
const (
	marketMinLen       = 365
	marketBaseMint     = 53
	marketQuoteMint    = 85
	marketBids         = 285
	marketAsks         = 317
	marketBaseLotSize  = 349
	marketQuoteLotSize = 357
)

// Order book slab layout: 5 byte padding, u64 account flags, 32 byte header, then 72 byte nodes.
const (
	slabBumpIndex   = 13
	slabNodesOffset = 45
	slabNodeSize    = 72
	slabLeafTag     = 2
)

const mintDecimalsOffset = 44

// ErrEmptyBook is returned when a side of the order book has no resting orders.
var ErrEmptyBook = errors.New("order book side is empty")

// AccountDataReader fetches raw account data; a missing account yields nil at its index.
type AccountDataReader interface {
	GetMultipleAccountsData(ctx context.Context, keys []solana.PublicKey) ([][]byte, error)
}

// MarketState is the part of a Serum market needed to read its order book.
type MarketState struct {
	BaseMint     solana.PublicKey
	QuoteMint    solana.PublicKey
	Bids         solana.PublicKey
	Asks         solana.PublicKey
	BaseLotSize  uint64
	QuoteLotSize uint64
}

// DecodeMarket reads a Serum v3 market account.
func DecodeMarket(data []byte) (MarketState, error) {
	if len(data) < marketMinLen {
		return MarketState{}, fmt.Errorf("market account too short: %d bytes", len(data))
	}
	return MarketState{
		BaseMint:     solana.PublicKeyFromBytes(data[marketBaseMint : marketBaseMint+32]),
		QuoteMint:    solana.PublicKeyFromBytes(data[marketQuoteMint : marketQuoteMint+32]),
		Bids:         solana.PublicKeyFromBytes(data[marketBids : marketBids+32]),
		Asks:         solana.PublicKeyFromBytes(data[marketAsks : marketAsks+32]),
		BaseLotSize:  binary.LittleEndian.Uint64(data[marketBaseLotSize:]),
		QuoteLotSize: binary.LittleEndian.Uint64(data[marketQuoteLotSize:]),
	}, nil
}

// SlabPrices returns the price, in lots, of every leaf in an order book slab.
func SlabPrices(data []byte) ([]uint64, error) {
	if len(data) < slabNodesOffset {
		return nil, fmt.Errorf("slab account too short: %d bytes", len(data))
	}
	n := (len(data) - slabNodesOffset) / slabNodeSize
	if bump := int(binary.LittleEndian.Uint32(data[slabBumpIndex:])); bump < n {
		n = bump
	}

	prices := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		node := data[slabNodesOffset+i*slabNodeSize : slabNodesOffset+(i+1)*slabNodeSize]
		if binary.LittleEndian.Uint32(node[0:4]) != slabLeafTag {
			continue
		}
		// u128 key at 8: low half is the sequence number, high half the price.
		prices = append(prices, binary.LittleEndian.Uint64(node[16:24]))
	}
	return prices, nil
}

// MintDecimals reads the decimals field of an SPL mint account.
func MintDecimals(data []byte) (uint8, error) {
	if len(data) <= mintDecimalsOffset {
		return 0, fmt.Errorf("mint account too short: %d bytes", len(data))
	}
	return data[mintDecimalsOffset], nil
}

// LotsToPrice converts a price in lots to quote units per base unit.
func LotsToPrice(lots uint64, m MarketState, baseDecimals, quoteDecimals uint8) decimal.Decimal {
	if m.BaseLotSize == 0 {
		return decimal.Zero
	}
	num := u64(lots).Mul(u64(m.QuoteLotSize)).Shift(int32(baseDecimals))
	den := u64(m.BaseLotSize).Shift(int32(quoteDecimals))
	return num.Div(den)
}

func u64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

// SerumPriceSource implements port.MarketPriceSource with the best bid/ask midpoint of a market.
type SerumPriceSource struct {
	accounts AccountDataReader
	cache    *cache.Cache
	logger   *zap.Logger
}

// NewSerumPriceSource creates a price source whose quotes are kept for ttl.
func NewSerumPriceSource(accounts AccountDataReader, ttl time.Duration, logger *zap.Logger) *SerumPriceSource {
	return &SerumPriceSource{
		accounts: accounts,
		cache:    cache.New(ttl, 2*ttl),
		logger:   logger.Named("SerumPriceSource"),
	}
}

// MarketPrice returns the midpoint of the best bid and best ask.
func (s *SerumPriceSource) MarketPrice(ctx context.Context, market entity.Market) (float64, error) {
	if cached, ok := s.cache.Get(market.Address); ok {
		return cached.(float64), nil
	}

	marketKey, err := solana.PublicKeyFromBase58(market.Address)
	if err != nil {
		return 0, fmt.Errorf("%w: bad market address %q: %v", entity.ErrNoMarket, market.Address, err)
	}

	data, err := s.accounts.GetMultipleAccountsData(ctx, []solana.PublicKey{marketKey})
	if err != nil {
		return 0, err
	}
	if len(data) == 0 || data[0] == nil {
		return 0, fmt.Errorf("%w: market account %s not found", entity.ErrNoMarket, market.Address)
	}
	state, err := DecodeMarket(data[0])
	if err != nil {
		return 0, err
	}

	book, err := s.accounts.GetMultipleAccountsData(ctx, []solana.PublicKey{state.Bids, state.Asks, state.BaseMint, state.QuoteMint})
	if err != nil {
		return 0, err
	}
	if len(book) != 4 || lo.SomeBy(book, func(b []byte) bool { return b == nil }) {
		return 0, fmt.Errorf("incomplete order book accounts for market %s", market.Name)
	}

	bids, err := SlabPrices(book[0])
	if err != nil {
		return 0, err
	}
	asks, err := SlabPrices(book[1])
	if err != nil {
		return 0, err
	}
	if len(bids) == 0 || len(asks) == 0 {
		return 0, fmt.Errorf("%w: market %s (bids=%d asks=%d)", ErrEmptyBook, market.Name, len(bids), len(asks))
	}
	baseDecimals, err := MintDecimals(book[2])
	if err != nil {
		return 0, err
	}
	quoteDecimals, err := MintDecimals(book[3])
	if err != nil {
		return 0, err
	}

	bestBid := LotsToPrice(lo.Max(bids), state, baseDecimals, quoteDecimals)
	bestAsk := LotsToPrice(lo.Min(asks), state, baseDecimals, quoteDecimals)
	price, _ := bestBid.Add(bestAsk).Div(decimal.NewFromInt(2)).Float64()

	s.logger.Debug("Market price computed",
		zap.String("market", market.Name),
		zap.String("bid", bestBid.String()),
		zap.String("ask", bestAsk.String()),
		zap.Float64("mid", price))

	s.cache.SetDefault(market.Address, price)
	return price, nil
}
