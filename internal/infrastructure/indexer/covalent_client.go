package indexer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/infrastructure/httpclient"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// covalentItem is one entry of a balances_v2 response. Numeric fields arrive
// as JSON numbers or strings depending on size, so they are decoded loosely.
type covalentItem struct {
	Balance              jsoniter.Number `json:"balance"`
	ContractAddress      string          `json:"contract_address"`
	ContractDecimals     *int            `json:"contract_decimals"`
	ContractTickerSymbol string          `json:"contract_ticker_symbol"`
	ContractName         string          `json:"contract_name"`
	LogoURL              string          `json:"logo_url"`
	Quote                *float64        `json:"quote"`
	QuoteRate            *float64        `json:"quote_rate"`
}

type covalentResponse struct {
	Data struct {
		Address string         `json:"address"`
		Items   []covalentItem `json:"items"`
	} `json:"data"`
	Error        bool   `json:"error"`
	ErrorMessage string `json:"error_message"`
}

// CovalentClient implements port.HoldingsIndexer against the Covalent balances_v2 API.
type CovalentClient struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewCovalentClient creates a new instance of CovalentClient.
func NewCovalentClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *CovalentClient {
	return &CovalentClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("CovalentClient"),
	}
}

// EVMChainNumber maps a bridge chain to the numeric chain id the indexer expects.
func EVMChainNumber(chain entity.ChainID) (int, error) {
	switch chain {
	case entity.ChainEthereum:
		return 1, nil
	case entity.ChainBSC:
		return 56, nil
	default:
		return 0, fmt.Errorf("%w: %s has no indexer chain number", entity.ErrUnsupportedChain, chain)
	}
}

// TokensURL builds the balances_v2 URL for an address.
func (c *CovalentClient) TokensURL(chain entity.ChainID, address string, nft bool) (string, error) {
	chainNum, err := EVMChainNumber(chain)
	if err != nil {
		return "", err
	}
	u := fmt.Sprintf("%s/%d/address/%s/balances_v2/?key=%s", c.baseURL, chainNum, address, url.QueryEscape(c.apiKey))
	if nft {
		u += "&nft=true"
	}
	return u, nil
}

// GetHoldings returns the fungible token holdings of address.
func (c *CovalentClient) GetHoldings(ctx context.Context, chain entity.ChainID, address string) ([]entity.IndexedHolding, error) {
	requestURL, err := c.TokensURL(chain, address, false)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Requesting holdings from Covalent", zap.String("chain", chain.String()), zap.String("address", address))

	var resp covalentResponse
	if err := httpclient.GetJSON(ctx, c.client, requestURL, c.timeout, &resp); err != nil {
		c.logger.Error("Covalent request failed", zap.String("chain", chain.String()), zap.Error(err))
		return nil, err
	}
	if resp.Error {
		return nil, fmt.Errorf("covalent returned error for %s: %s", address, resp.ErrorMessage)
	}

	holdings := make([]entity.IndexedHolding, 0, len(resp.Data.Items))
	for _, item := range resp.Data.Items {
		decimals := 0
		if item.ContractDecimals != nil {
			decimals = *item.ContractDecimals
		}
		if decimals < 0 || decimals > 255 {
			c.logger.Warn("Skipping item with out of range decimals", zap.String("contract", item.ContractAddress), zap.Int("decimals", decimals))
			continue
		}
		holdings = append(holdings, entity.IndexedHolding{
			Balance:         item.Balance.String(),
			ContractAddress: item.ContractAddress,
			Decimals:        uint8(decimals),
			Symbol:          item.ContractTickerSymbol,
			Name:            item.ContractName,
			LogoURL:         item.LogoURL,
			Quote:           item.Quote,
			QuoteRate:       item.QuoteRate,
		})
	}

	c.logger.Debug("Covalent holdings received", zap.String("chain", chain.String()), zap.Int("count", len(holdings)))
	return holdings, nil
}
