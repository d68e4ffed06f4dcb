package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"bridge_tvl/internal/domain/entity"
	networkdefinition "bridge_tvl/internal/infrastructure/network/definition"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testToken  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	testWallet = "0x00000000000000000000000000000000000000aa"
)

func word(n *big.Int) string {
	return fmt.Sprintf("\"0x%064x\"", n)
}

// newEVMNode fakes eth_call for decimals() and balanceOf().
func newEVMNode(t *testing.T, decimals uint8, balance *big.Int, failBalance bool) string {
	t.Helper()
	_, srv := newFakeRPC(t, map[string]rpcHandler{
		"eth_call": func(params []interface{}) (string, string) {
			call, _ := params[0].(map[string]interface{})
			input, _ := call["input"].(string)
			if input == "" {
				input, _ = call["data"].(string)
			}
			switch {
			case strings.HasPrefix(input, "0x313ce567"):
				return word(big.NewInt(int64(decimals))), ""
			case strings.HasPrefix(input, "0x70a08231"):
				if failBalance {
					return "", "execution reverted"
				}
				return word(balance), ""
			}
			return `"0x"`, ""
		},
	})
	return srv.URL
}

func newTestEVMClient(t *testing.T, url string) *EVMClient {
	t.Helper()
	eth, err := ethclient.Dial(url)
	require.NoError(t, err)
	t.Cleanup(eth.Close)
	return NewEVMClient(eth, networkdefinition.Ethereum, 5*time.Second, zap.NewNop())
}

func TestEVMClientFetchBalance(t *testing.T) {
	balance, _ := new(big.Int).SetString("1500000000000000000", 10)
	c := newTestEVMClient(t, newEVMNode(t, 18, balance, false))
	acc, err := c.FetchBalance(context.Background(), testToken, testWallet)
	require.NoError(t, err)

	assert.Equal(t, entity.ChainEthereum, c.Chain())
	assert.Equal(t, common.HexToAddress(testWallet).Hex(), acc.Address)
	assert.Equal(t, common.HexToAddress(testToken).Hex(), acc.MintOrContract)
	assert.Equal(t, "1500000000000000000", acc.RawAmount)
	assert.Equal(t, uint8(18), acc.Decimals)
	assert.Equal(t, "1.5", acc.UIAmountString)
	assert.InDelta(t, 1.5, acc.UIAmount, 1e-12)
}

func TestEVMClientFetchBalanceCallFails(t *testing.T) {
	c := newTestEVMClient(t, newEVMNode(t, 6, big.NewInt(1), true))
	_, err := c.FetchBalance(context.Background(), testToken, testWallet)
	assert.Error(t, err)
}

func TestEVMClientRejectsMalformedAddress(t *testing.T) {
	c := NewEVMClient(nil, networkdefinition.BSC, time.Second, zap.NewNop())
	_, err := c.FetchBalance(context.Background(), "not-an-address", testWallet)
	assert.ErrorIs(t, err, entity.ErrInvalidAddress)
	assert.Equal(t, entity.ChainBSC, c.Chain())
}
