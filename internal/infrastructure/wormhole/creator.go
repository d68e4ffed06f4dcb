package wormhole

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/pkg/vaa"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// ErrPayerMismatch is returned when the requested payer is not the configured signer.
var ErrPayerMismatch = errors.New("payer does not match signer")

// TransactionRPC is the subset of the Solana client used to submit and track a transaction.
type TransactionRPC interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	SignatureConfirmed(ctx context.Context, sig solana.Signature) (bool, error)
	GetTransaction(ctx context.Context, sig solana.Signature) (*rpc.GetTransactionResult, error)
}

// SolanaWrappedCreator implements port.WrappedAssetCreator for Solana.
type SolanaWrappedCreator struct {
	rpc            TransactionRPC
	programs       Programs
	signer         solana.PrivateKey
	confirmTimeout time.Duration
	pollInterval   time.Duration
	logger         *zap.Logger
}

// NewSolanaWrappedCreator creates a creator that signs with signer.
func NewSolanaWrappedCreator(
	client TransactionRPC,
	programs Programs,
	signer solana.PrivateKey,
	confirmTimeout, pollInterval time.Duration,
	logger *zap.Logger,
) *SolanaWrappedCreator {
	return &SolanaWrappedCreator{
		rpc:            client,
		programs:       programs,
		signer:         signer,
		confirmTimeout: confirmTimeout,
		pollInterval:   pollInterval,
		logger:         logger.Named("SolanaWrappedCreator"),
	}
}

// Chain returns entity.ChainSolana.
func (c *SolanaWrappedCreator) Chain() entity.ChainID {
	return entity.ChainSolana
}

// CreateWrapped submits CreateWrapped for the attestation VAA and waits for confirmation.
// The submission itself is not retried.
func (c *SolanaWrappedCreator) CreateWrapped(ctx context.Context, payer string, signedVAA []byte) (*entity.WrappedTransaction, error) {
	payerKey, err := solana.PublicKeyFromBase58(payer)
	if err != nil {
		return nil, fmt.Errorf("%w: payer %q: %v", entity.ErrInvalidAddress, payer, err)
	}
	if c.signer == nil || !payerKey.Equals(c.signer.PublicKey()) {
		return nil, fmt.Errorf("%w: %s", ErrPayerMismatch, payer)
	}

	parsed, err := vaa.Parse(signedVAA)
	if err != nil {
		return nil, err
	}
	ix, err := c.programs.CreateWrappedInstruction(payerKey, parsed)
	if err != nil {
		return nil, err
	}

	blockhash, err := c.rpc.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, blockhash, solana.TransactionPayer(payerKey))
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(c.signer.PublicKey()) {
			return &c.signer
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := c.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	c.logger.Info("CreateWrapped submitted", zap.String("signature", sig.String()), zap.Uint64("sequence", parsed.Sequence))

	if err := c.waitConfirmed(ctx, sig); err != nil {
		return nil, err
	}

	res, err := c.rpc.GetTransaction(ctx, sig)
	if err != nil {
		return nil, err
	}
	out := &entity.WrappedTransaction{
		Chain:     entity.ChainSolana,
		Signature: sig.String(),
		Slot:      res.Slot,
	}
	if res.BlockTime != nil {
		t := res.BlockTime.Time().UTC()
		out.BlockTime = &t
	}
	if res.Meta != nil {
		out.Fee = res.Meta.Fee
		out.Err = res.Meta.Err
	}
	c.logger.Info("CreateWrapped confirmed", zap.String("signature", out.Signature), zap.Uint64("slot", out.Slot))
	return out, nil
}

func (c *SolanaWrappedCreator) waitConfirmed(ctx context.Context, sig solana.Signature) error {
	errNotYet := errors.New("signature not confirmed yet")

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		confirmed, err := c.rpc.SignatureConfirmed(ctx, sig)
		switch {
		case err != nil && confirmed:
			return struct{}{}, backoff.Permanent(err)
		case err != nil:
			c.logger.Debug("Signature status lookup failed", zap.String("signature", sig.String()), zap.Error(err))
			return struct{}{}, err
		case !confirmed:
			return struct{}{}, errNotYet
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(c.pollInterval)),
		backoff.WithMaxElapsedTime(c.confirmTimeout),
	)
	if err != nil {
		return fmt.Errorf("transaction %s not confirmed: %w", sig, err)
	}
	return nil
}
