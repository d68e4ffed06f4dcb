package service

import (
	"context"

	"bridge_tvl/internal/app/port"
	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/pkg/utils"

	"github.com/shopspring/decimal"
)

// EVMTVLSource reports the holdings of an EVM token bridge through a holdings indexer.
type EVMTVLSource struct {
	chain   entity.ChainID
	custody string
	indexer port.HoldingsIndexer
	logger  port.Logger
}

// NewEVMTVLSource creates a source for the network's custody address.
func NewEVMTVLSource(netDef entity.NetworkDefinition, indexer port.HoldingsIndexer, logger port.Logger) *EVMTVLSource {
	return &EVMTVLSource{
		chain:   netDef.Chain,
		custody: netDef.CustodyAddress,
		indexer: indexer,
		logger:  logger,
	}
}

func (s *EVMTVLSource) Chain() entity.ChainID {
	return s.chain
}

// FetchTVL lists the custodied tokens with a positive balance.
func (s *EVMTVLSource) FetchTVL(ctx context.Context) ([]entity.TVLEntry, error) {
	holdings, err := s.indexer.GetHoldings(ctx, s.chain, s.custody)
	if err != nil {
		s.logger.Warn("Indexer request failed", "chain", s.chain.String(), "address", s.custody, "error", err)
		return nil, &SourceError{Chain: s.chain, Cause: err}
	}
	entries := BuildEVMTVL(s.chain, holdings)
	s.logger.Debug("EVM TVL built", "chain", s.chain.String(), "items", len(holdings), "entries", len(entries))
	return entries, nil
}

// BuildEVMTVL keeps holdings with a contract address and a positive balance and
// maps them to entries. The indexer's quote is the entry's total value; without
// one it is derived from the quote rate.
func BuildEVMTVL(chain entity.ChainID, holdings []entity.IndexedHolding) []entity.TVLEntry {
	out := make([]entity.TVLEntry, 0, len(holdings))
	for _, h := range holdings {
		if h.ContractAddress == "" {
			continue
		}
		balance, err := utils.ParseUnits(h.Balance)
		if err != nil || balance.Sign() <= 0 {
			continue
		}
		amount := utils.FormatUnits(balance, h.Decimals)
		totalValue := h.Quote
		if totalValue == nil && h.QuoteRate != nil {
			v := utils.SafeParse(amount).Mul(decimal.NewFromFloat(*h.QuoteRate)).InexactFloat64()
			totalValue = &v
		}
		out = append(out, entity.TVLEntry{
			Logo:          h.LogoURL,
			Symbol:        h.Symbol,
			Name:          h.Name,
			Amount:        amount,
			TotalValue:    totalValue,
			QuotePrice:    h.QuoteRate,
			AssetAddress:  h.ContractAddress,
			OriginChainID: chain,
			OriginChain:   chain.String(),
		})
	}
	return out
}
