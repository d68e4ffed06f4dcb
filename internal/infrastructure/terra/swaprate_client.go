package terra

import (
	"context"
	"time"

	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/infrastructure/httpclient"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// SwapRateClient implements port.SwapRateSource against the Terra FCD market endpoint.
type SwapRateClient struct {
	client  *fasthttp.Client
	url     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewSwapRateClient creates a client for a swap-rate URL such as
// https://fcd.terra.dev/v1/market/swaprate/uusd.
func NewSwapRateClient(url string, timeout time.Duration, logger *zap.Logger) *SwapRateClient {
	return &SwapRateClient{
		client:  &fasthttp.Client{},
		url:     url,
		timeout: timeout,
		logger:  logger.Named("TerraSwapRateClient"),
	}
}

// SwapRates returns the table of {denom, swaprate} quoted against uusd.
func (c *SwapRateClient) SwapRates(ctx context.Context) ([]entity.SwapRate, error) {
	var rates []entity.SwapRate
	if err := httpclient.GetJSON(ctx, c.client, c.url, c.timeout, &rates); err != nil {
		c.logger.Warn("Swap rate request failed", zap.String("url", c.url), zap.Error(err))
		return nil, err
	}
	return rates, nil
}
