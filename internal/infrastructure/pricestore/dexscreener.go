package pricestore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bridge_tvl/internal/infrastructure/httpclient"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DEXScreenerSolanaChainID is the DEXScreener identifier of Solana mainnet.
const DEXScreenerSolanaChainID = "solana"

// PairData is the subset of a DEXScreener pair used for pricing.
type PairData struct {
	ChainID     string        `json:"chainId"`
	DexID       string        `json:"dexId"`
	PairAddress string        `json:"pairAddress"`
	BaseToken   DEXToken      `json:"baseToken"`
	QuoteToken  DEXToken      `json:"quoteToken"`
	PriceUsd    string        `json:"priceUsd"`
	Liquidity   *DEXLiquidity `json:"liquidity"`
}

// DEXToken represents a token in a trading pair.
type DEXToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// DEXLiquidity represents the liquidity information for a pair.
type DEXLiquidity struct {
	Usd float64 `json:"usd"`
}

type dexTokenPairs struct {
	Pairs []PairData `json:"pairs"`
}

// DEXScreenerClient implements port.MintPriceSource using the DEXScreener tokens API.
type DEXScreenerClient struct {
	client  *fasthttp.Client
	baseURL string
	chainID string
	timeout time.Duration
	cache   *cache.Cache
	logger  *zap.Logger
}

// NewDEXScreenerClient creates a new instance of DEXScreenerClient for Solana mints.
func NewDEXScreenerClient(baseURL string, timeout, ttl time.Duration, logger *zap.Logger) *DEXScreenerClient {
	return &DEXScreenerClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		chainID: DEXScreenerSolanaChainID,
		timeout: timeout,
		cache:   cache.New(ttl, 2*ttl),
		logger:  logger.Named("DEXScreenerClient"),
	}
}

// GetTokenPairs returns every pair DEXScreener lists for the given token addresses.
func (c *DEXScreenerClient) GetTokenPairs(ctx context.Context, tokenAddresses []string) ([]PairData, error) {
	if len(tokenAddresses) == 0 {
		return nil, fmt.Errorf("tokenAddresses cannot be empty")
	}
	requestURL := fmt.Sprintf("%s/tokens/v1/%s/%s", c.baseURL, c.chainID, strings.Join(tokenAddresses, ","))
	c.logger.Debug("Requesting token pairs from DEX Screener", zap.String("url", requestURL))

	body, status, err := httpclient.Get(ctx, c.client, requestURL, c.timeout)
	if err != nil {
		c.logger.Error("Failed to execute request to DEX Screener", zap.String("url", requestURL), zap.Error(err))
		return nil, err
	}
	if status != fasthttp.StatusOK {
		c.logger.Error("DEX Screener API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", body))
		return nil, &httpclient.StatusError{URL: requestURL, StatusCode: status, Body: body}
	}

	// The endpoint has answered both with a bare array and with a {"pairs": [...]} object.
	var wrapped dexTokenPairs
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Pairs != nil {
		return wrapped.Pairs, nil
	}
	var direct []PairData
	if err := json.Unmarshal(body, &direct); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DEX Screener response from %s: %w", requestURL, err)
	}
	return direct, nil
}

// MintPrice returns the USD price of mint from its most liquid pair.
func (c *DEXScreenerClient) MintPrice(ctx context.Context, mint string) (float64, error) {
	if cached, ok := c.cache.Get(mint); ok {
		return cached.(float64), nil
	}

	pairs, err := c.GetTokenPairs(ctx, []string{mint})
	if err != nil {
		return 0, err
	}
	price, ok := BestPairPrice(pairs, mint)
	if !ok {
		return 0, fmt.Errorf("no priced DEX Screener pair for %s", mint)
	}
	c.cache.SetDefault(mint, price)
	return price, nil
}

// BestPairPrice picks the pair with the highest USD liquidity whose base token is mint.
func BestPairPrice(pairs []PairData, mint string) (float64, bool) {
	candidates := lo.Filter(pairs, func(p PairData, _ int) bool {
		if p.BaseToken.Address != mint || p.PriceUsd == "" {
			return false
		}
		d, err := decimal.NewFromString(p.PriceUsd)
		return err == nil && d.IsPositive()
	})
	if len(candidates) == 0 {
		return 0, false
	}
	best := lo.MaxBy(candidates, func(a, b PairData) bool {
		return liquidityUSD(a) > liquidityUSD(b)
	})
	price, _ := decimal.RequireFromString(best.PriceUsd).Float64()
	return price, true
}

func liquidityUSD(p PairData) float64 {
	if p.Liquidity == nil {
		return 0
	}
	return p.Liquidity.Usd
}
