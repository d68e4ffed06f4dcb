package service

import (
	"context"
	"sync"

	"bridge_tvl/internal/app/port"
	"bridge_tvl/internal/pkg/metrics"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// PriceEnricher implements port.BatchPricer for Solana mints: mint -> registry
// symbol -> market -> order-book price, with an optional direct fallback for
// mints that have no market.
type PriceEnricher struct {
	registry      port.TokenRegistry
	markets       port.MarketTable
	prices        port.MarketPriceSource
	fallback      port.MintPriceSource
	maxConcurrent int
	metrics       *metrics.Metrics
	logger        port.Logger
}

// NewPriceEnricher creates an enricher. fallback and m may be nil.
func NewPriceEnricher(
	registry port.TokenRegistry,
	markets port.MarketTable,
	prices port.MarketPriceSource,
	fallback port.MintPriceSource,
	maxConcurrent int,
	m *metrics.Metrics,
	logger port.Logger,
) *PriceEnricher {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &PriceEnricher{
		registry:      registry,
		markets:       markets,
		prices:        prices,
		fallback:      fallback,
		maxConcurrent: maxConcurrent,
		metrics:       m,
		logger:        logger,
	}
}

// Prices looks every mint up in parallel and returns once all lookups settled.
// A failed lookup yields no price. Errors are returned only when the registry
// is unavailable or ctx ends before the batch completes.
func (e *PriceEnricher) Prices(ctx context.Context, mints []string) (map[string]*float64, error) {
	tokens, err := e.registry.Tokens(ctx)
	if err != nil {
		return nil, err
	}

	unique := lo.Uniq(mints)
	result := make(map[string]*float64, len(unique))
	lookups := make(map[string]priceLookup, len(unique))
	for _, mint := range unique {
		result[mint] = nil
		if lookup := e.lookupFor(mint, tokens[mint].Symbol); lookup != nil {
			lookups[mint] = lookup
		} else {
			e.metrics.PriceLookup(metrics.PriceNoMarket)
		}
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(e.maxConcurrent)

	for mint, lookup := range lookups {
		g.Go(func() error {
			price, outcome, err := lookup(ctx)
			if err != nil {
				e.logger.Debug("Price lookup failed", "mint", mint, "error", err)
				e.metrics.PriceLookup(metrics.PriceFailed)
				return nil
			}
			e.metrics.PriceLookup(outcome)
			mu.Lock()
			result[mint] = &price
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type priceLookup func(ctx context.Context) (float64, string, error)

func (e *PriceEnricher) lookupFor(mint, symbol string) priceLookup {
	if market, ok := e.markets.MarketForSymbol(symbol); ok {
		return func(ctx context.Context) (float64, string, error) {
			p, err := e.prices.MarketPrice(ctx, market)
			return p, metrics.PriceFound, err
		}
	}
	if e.fallback != nil {
		return func(ctx context.Context) (float64, string, error) {
			p, err := e.fallback.MintPrice(ctx, mint)
			return p, metrics.PriceFallback, err
		}
	}
	return nil
}
