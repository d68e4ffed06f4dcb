package client

import (
	"context"
	"fmt"
	"time"

	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/pkg/utils"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// SolanaClient is a thin adapter over the solana-go RPC client. It implements
// port.BalanceFetcher and port.CustodyAccountLister and exposes the raw
// account and transaction calls the price store and wrapped-asset creator need.
type SolanaClient struct {
	rpc            *rpc.Client
	rpcCallTimeout time.Duration
	logger         *zap.Logger
}

// parsedTokenAccount mirrors the jsonParsed encoding of an SPL token account.
type parsedTokenAccount struct {
	Parsed struct {
		Info struct {
			Mint        string `json:"mint"`
			Owner       string `json:"owner"`
			TokenAmount struct {
				Amount         string   `json:"amount"`
				Decimals       uint8    `json:"decimals"`
				UIAmount       *float64 `json:"uiAmount"`
				UIAmountString string   `json:"uiAmountString"`
			} `json:"tokenAmount"`
		} `json:"info"`
		Type string `json:"type"`
	} `json:"parsed"`
	Program string `json:"program"`
}

// NewSolanaClient creates a new client for the given RPC URL.
func NewSolanaClient(rpcURL string, rpcCallTimeout time.Duration, logger *zap.Logger) *SolanaClient {
	return &SolanaClient{
		rpc:            rpc.New(rpcURL),
		rpcCallTimeout: rpcCallTimeout,
		logger:         logger.Named("SolanaClient"),
	}
}

// Chain returns entity.ChainSolana.
func (c *SolanaClient) Chain() entity.ChainID {
	return entity.ChainSolana
}

// FetchBalance returns the wallet's first token account for the mint.
func (c *SolanaClient) FetchBalance(ctx context.Context, asset, wallet string) (*entity.ParsedTokenAccount, error) {
	mint, err := solana.PublicKeyFromBase58(asset)
	if err != nil {
		return nil, fmt.Errorf("%w: mint %q: %v", entity.ErrInvalidAddress, asset, err)
	}
	owner, err := solana.PublicKeyFromBase58(wallet)
	if err != nil {
		return nil, fmt.Errorf("%w: wallet %q: %v", entity.ErrInvalidAddress, wallet, err)
	}

	accounts, err := c.tokenAccountsByOwner(ctx, owner, &rpc.GetTokenAccountsConfig{Mint: &mint}, rpc.CommitmentFinalized)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: owner=%s mint=%s", entity.ErrNoTokenAccount, wallet, asset)
	}
	return &accounts[0], nil
}

// GetTokenAccounts lists every SPL token account owned by owner.
func (c *SolanaClient) GetTokenAccounts(ctx context.Context, owner string) ([]entity.ParsedTokenAccount, error) {
	ownerKey, err := solana.PublicKeyFromBase58(owner)
	if err != nil {
		return nil, fmt.Errorf("%w: owner %q: %v", entity.ErrInvalidAddress, owner, err)
	}
	programID := solana.TokenProgramID
	return c.tokenAccountsByOwner(ctx, ownerKey, &rpc.GetTokenAccountsConfig{ProgramId: &programID}, rpc.CommitmentConfirmed)
}

func (c *SolanaClient) tokenAccountsByOwner(
	ctx context.Context,
	owner solana.PublicKey,
	conf *rpc.GetTokenAccountsConfig,
	commitment rpc.CommitmentType,
) ([]entity.ParsedTokenAccount, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	res, err := c.rpc.GetTokenAccountsByOwner(callCtx, owner, conf, &rpc.GetTokenAccountsOpts{
		Encoding:   solana.EncodingJSONParsed,
		Commitment: commitment,
	})
	if err != nil {
		c.logger.Debug("GetTokenAccountsByOwner error", zap.String("owner", owner.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get token accounts by owner %s: %w", owner, err)
	}

	out := make([]entity.ParsedTokenAccount, 0, len(res.Value))
	for _, acct := range res.Value {
		if acct == nil || acct.Account.Data == nil {
			continue
		}
		raw := acct.Account.Data.GetRawJSON()
		if raw == nil {
			continue
		}
		var parsed parsedTokenAccount
		if err := json.Unmarshal(raw, &parsed); err != nil {
			c.logger.Warn("Failed to decode parsed token account", zap.String("account", acct.Pubkey.String()), zap.Error(err))
			continue
		}
		info := parsed.Parsed.Info
		if info.Mint == "" {
			continue
		}
		amount := info.TokenAmount.Amount
		if amount == "" {
			amount = "0"
		}
		pta, err := utils.NewParsedTokenAccount(acct.Pubkey.String(), info.Mint, amount, info.TokenAmount.Decimals)
		if err != nil {
			c.logger.Warn("Skipping token account with malformed amount", zap.String("account", acct.Pubkey.String()), zap.Error(err))
			continue
		}
		out = append(out, *pta)
	}
	return out, nil
}

// GetMultipleAccountsData returns the raw data of each account; missing accounts yield nil.
func (c *SolanaClient) GetMultipleAccountsData(ctx context.Context, keys []solana.PublicKey) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	res, err := c.rpc.GetMultipleAccountsWithOpts(callCtx, keys, &rpc.GetMultipleAccountsOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		c.logger.Debug("GetMultipleAccounts error", zap.Int("count", len(keys)), zap.Error(err))
		return nil, fmt.Errorf("failed to get %d accounts: %w", len(keys), err)
	}

	out := make([][]byte, len(keys))
	for i, acct := range res.Value {
		if i >= len(out) {
			break
		}
		if acct == nil || acct.Data == nil {
			continue
		}
		out[i] = acct.Data.GetBinary()
	}
	return out, nil
}

// LatestBlockhash returns the latest finalized blockhash.
func (c *SolanaClient) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	result, err := c.rpc.GetLatestBlockhash(callCtx, rpc.CommitmentFinalized)
	if err != nil {
		c.logger.Error("GetLatestBlockhash error", zap.Error(err))
		return solana.Hash{}, err
	}
	return result.Value.Blockhash, nil
}

// SendTransaction submits a signed transaction.
func (c *SolanaClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	sig, err := c.rpc.SendTransactionWithOpts(callCtx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		c.logger.Error("SendTransaction error", zap.Error(err))
		return solana.Signature{}, err
	}
	return sig, nil
}

// SignatureConfirmed reports whether the signature reached confirmed or finalized status.
// An on-chain failure is returned as an error.
func (c *SolanaClient) SignatureConfirmed(ctx context.Context, sig solana.Signature) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	statuses, err := c.rpc.GetSignatureStatuses(callCtx, false, sig)
	if err != nil {
		return false, err
	}
	if statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
		return false, nil
	}
	status := statuses.Value[0]
	if status.Err != nil {
		return true, fmt.Errorf("transaction %s failed: %v", sig, status.Err)
	}
	return status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
		status.ConfirmationStatus == rpc.ConfirmationStatusFinalized, nil
}

// GetTransaction fetches the confirmed transaction's metadata.
func (c *SolanaClient) GetTransaction(ctx context.Context, sig solana.Signature) (*rpc.GetTransactionResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	maxVersion := uint64(0)
	res, err := c.rpc.GetTransaction(callCtx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", sig, err)
	}
	return res, nil
}
