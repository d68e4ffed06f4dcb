package pricestore

import (
	"strings"

	"bridge_tvl/internal/domain/entity"
)

// MarketTable implements port.MarketTable over a symbol-keyed set of markets.
type MarketTable struct {
	markets map[string]entity.Market
}

// NewMarketTable copies markets, normalising symbols to upper case. Deprecated markets are dropped.
func NewMarketTable(markets map[string]entity.Market) *MarketTable {
	t := &MarketTable{markets: make(map[string]entity.Market, len(markets))}
	for symbol, m := range markets {
		if m.Deprecated || m.Address == "" {
			continue
		}
		t.markets[strings.ToUpper(symbol)] = m
	}
	return t
}

// MarketForSymbol returns the market quoting symbol.
func (t *MarketTable) MarketForSymbol(symbol string) (entity.Market, bool) {
	if symbol == "" {
		return entity.Market{}, false
	}
	m, ok := t.markets[strings.ToUpper(symbol)]
	return m, ok
}

// Len returns the number of usable markets.
func (t *MarketTable) Len() int {
	return len(t.markets)
}
