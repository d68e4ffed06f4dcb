package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/pkg/utils"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// ContractCaller is the read-only subset of ethclient.Client used here.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// EVMClient reads ERC-20 balances on an EVM-compatible chain and implements port.BalanceFetcher.
type EVMClient struct {
	caller         ContractCaller
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
	logger         *zap.Logger
}

// Minimal token ABI: decimals() and balanceOf(address).
const erc20ABI = `[
{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"payable":false,"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}
]`

var (
	parsedERC20ABI  abi.ABI
	parsedERC20Once sync.Once
)

func initParsedERC20ABI() {
	parsedERC20Once.Do(func() {
		var err error
		parsedERC20ABI, err = abi.JSON(strings.NewReader(erc20ABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
		}
	})
}

// DialEVM connects to the first reachable RPC endpoint of the network.
func DialEVM(netDef entity.NetworkDefinition, connectionTimeout time.Duration) (*ethclient.Client, error) {
	rpcURLs := append([]string{netDef.PrimaryRPCURL}, netDef.FallbackRPCURLs...)
	var lastErr error

	for _, rpcURL := range rpcURLs {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		client, err := ethclient.DialContext(ctx, rpcURL)
		cancel()
		if err == nil {
			return client, nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}

	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

// NewEVMClient wraps an already connected caller for the given network.
func NewEVMClient(caller ContractCaller, netDef entity.NetworkDefinition, rpcCallTimeout time.Duration, logger *zap.Logger) *EVMClient {
	initParsedERC20ABI()
	return &EVMClient{
		caller:         caller,
		netDef:         netDef,
		rpcCallTimeout: rpcCallTimeout,
		logger:         logger.Named("EVMClient").With(zap.String("network", netDef.Identifier)),
	}
}

// Chain returns the bridge chain id of the network.
func (c *EVMClient) Chain() entity.ChainID {
	return c.netDef.Chain
}

// FetchBalance resolves the token's decimals, then the wallet's balance.
func (c *EVMClient) FetchBalance(ctx context.Context, asset, wallet string) (*entity.ParsedTokenAccount, error) {
	if !common.IsHexAddress(asset) || !common.IsHexAddress(wallet) {
		return nil, fmt.Errorf("%w: asset=%s wallet=%s", entity.ErrInvalidAddress, asset, wallet)
	}
	token := common.HexToAddress(asset)
	owner := common.HexToAddress(wallet)

	decimals, err := c.Decimals(ctx, token)
	if err != nil {
		return nil, err
	}
	balance, err := c.BalanceOf(ctx, token, owner)
	if err != nil {
		return nil, err
	}

	return utils.NewParsedTokenAccount(owner.Hex(), token.Hex(), balance.String(), decimals)
}

// Decimals calls decimals() on the token contract.
func (c *EVMClient) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	out, err := c.call(ctx, token, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unexpected decimals() result type %T for %s", out[0], token.Hex())
	}
	return decimals, nil
}

// BalanceOf calls balanceOf(owner) on the token contract.
func (c *EVMClient) BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	out, err := c.call(ctx, token, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf() result type %T for %s", out[0], token.Hex())
	}
	return balance, nil
}

func (c *EVMClient) call(ctx context.Context, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsedERC20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	raw, err := c.caller.CallContract(callCtx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		c.logger.Debug("eth_call failed", zap.String("method", method), zap.String("contract", to.Hex()), zap.Error(err))
		return nil, fmt.Errorf("%s call on %s failed: %w", method, to.Hex(), err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s call on %s returned no data (not a token contract?)", method, to.Hex())
	}

	out, err := parsedERC20ABI.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s unpack returned no values", method)
	}
	return out, nil
}
