package service

import (
	"context"
	"fmt"

	"bridge_tvl/internal/app/port"
	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/pkg/metrics"
)

// WrappedDispatcher routes CreateWrapped requests to the creator of the target chain.
type WrappedDispatcher struct {
	solana  port.WrappedAssetCreator
	metrics *metrics.Metrics
	logger  port.Logger
}

// NewWrappedDispatcher creates a dispatcher. solana may be nil when no signer is configured.
func NewWrappedDispatcher(solana port.WrappedAssetCreator, m *metrics.Metrics, logger port.Logger) *WrappedDispatcher {
	return &WrappedDispatcher{solana: solana, metrics: m, logger: logger}
}

// CreateWrapped creates the wrapped asset attested by signedVAA on chain.
func (d *WrappedDispatcher) CreateWrapped(ctx context.Context, chain entity.ChainID, payer string, signedVAA []byte) (*entity.WrappedTransaction, error) {
	var creator port.WrappedAssetCreator
	switch chain {
	case entity.ChainSolana:
		creator = d.solana
	case entity.ChainEthereum, entity.ChainBSC, entity.ChainTerra:
		// no creator implemented
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedChain, chain)
	}
	if creator == nil {
		err := fmt.Errorf("%w: creating wrapped assets on %s", entity.ErrUnsupportedChain, chain)
		d.metrics.WrappedCreate(chain, err)
		return nil, err
	}

	tx, err := creator.CreateWrapped(ctx, payer, signedVAA)
	d.metrics.WrappedCreate(chain, err)
	if err != nil {
		d.logger.Error("CreateWrapped failed", "chain", chain.String(), "payer", payer, "error", err)
		return nil, err
	}
	d.logger.Info("Wrapped asset created", "chain", chain.String(), "signature", tx.Signature)
	return tx, nil
}
