package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/infrastructure/httpclient"
	"bridge_tvl/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NativeTerraDecimals is the precision of every native Terra denom.
const NativeTerraDecimals = 6

// TerraClient queries a Terra LCD endpoint. It implements port.BalanceFetcher
// and port.NativeBalanceReader.
type TerraClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

type bankBalancesResponse struct {
	Balances   []entity.Coin `json:"balances"`
	Pagination struct {
		NextKey *string `json:"next_key"`
	} `json:"pagination"`
}

type smartQueryResponse struct {
	Data jsoniter.RawMessage `json:"data"`
}

// NewTerraClient creates a new LCD client.
func NewTerraClient(baseURL string, timeout time.Duration, logger *zap.Logger) *TerraClient {
	return &TerraClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("TerraClient"),
	}
}

// Chain returns entity.ChainTerra.
func (c *TerraClient) Chain() entity.ChainID {
	return entity.ChainTerra
}

// FetchBalance reads the wallet's balance of a native denom ("uusd") or a CW20 token ("terra1...").
func (c *TerraClient) FetchBalance(ctx context.Context, asset, wallet string) (*entity.ParsedTokenAccount, error) {
	if !strings.HasPrefix(wallet, "terra1") {
		return nil, fmt.Errorf("%w: wallet %q", entity.ErrInvalidAddress, wallet)
	}

	if strings.HasPrefix(asset, "terra1") {
		return c.fetchCW20Balance(ctx, asset, wallet)
	}
	if asset == "" {
		return nil, fmt.Errorf("%w: empty denom", entity.ErrInvalidAddress)
	}

	coins, err := c.NativeBalances(ctx, wallet)
	if err != nil {
		return nil, err
	}
	amount := "0"
	for _, coin := range coins {
		if coin.Denom == asset {
			amount = coin.Amount
			break
		}
	}
	return utils.NewParsedTokenAccount(wallet, asset, amount, NativeTerraDecimals)
}

func (c *TerraClient) fetchCW20Balance(ctx context.Context, token, wallet string) (*entity.ParsedTokenAccount, error) {
	var info struct {
		Decimals uint8 `json:"decimals"`
	}
	if err := c.smartQuery(ctx, token, map[string]interface{}{"token_info": struct{}{}}, &info); err != nil {
		return nil, err
	}

	var bal struct {
		Balance string `json:"balance"`
	}
	if err := c.smartQuery(ctx, token, map[string]interface{}{"balance": map[string]string{"address": wallet}}, &bal); err != nil {
		return nil, err
	}
	if bal.Balance == "" {
		bal.Balance = "0"
	}
	return utils.NewParsedTokenAccount(wallet, token, bal.Balance, info.Decimals)
}

// NativeBalances returns every native coin held by address, following pagination.
func (c *TerraClient) NativeBalances(ctx context.Context, address string) ([]entity.Coin, error) {
	var coins []entity.Coin
	nextKey := ""
	for {
		requestURL := fmt.Sprintf("%s/cosmos/bank/v1beta1/balances/%s", c.baseURL, address)
		if nextKey != "" {
			requestURL += "?pagination.key=" + url.QueryEscape(nextKey)
		}

		var page bankBalancesResponse
		if err := c.getJSON(ctx, requestURL, &page); err != nil {
			return nil, err
		}
		coins = append(coins, page.Balances...)

		if page.Pagination.NextKey == nil || *page.Pagination.NextKey == "" {
			return coins, nil
		}
		nextKey = *page.Pagination.NextKey
	}
}

func (c *TerraClient) smartQuery(ctx context.Context, contract string, msg interface{}, out interface{}) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode smart query: %w", err)
	}
	requestURL := fmt.Sprintf("%s/cosmwasm/wasm/v1/contract/%s/smart/%s",
		c.baseURL, contract, base64.URLEncoding.EncodeToString(payload))

	var resp smartQueryResponse
	if err := c.getJSON(ctx, requestURL, &resp); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to decode smart query result from %s: %w", contract, err)
	}
	return nil
}

func (c *TerraClient) getJSON(ctx context.Context, requestURL string, out interface{}) error {
	if err := httpclient.GetJSON(ctx, c.client, requestURL, c.timeout, out); err != nil {
		c.logger.Warn("Terra LCD request failed", zap.String("url", requestURL), zap.Error(err))
		return err
	}
	return nil
}
