package port

import (
	"context"

	"bridge_tvl/internal/domain/entity"
)

// WrappedAssetCreator mints the wrapped representation of a foreign asset from a signed VAA.
type WrappedAssetCreator interface {
	Chain() entity.ChainID
	CreateWrapped(ctx context.Context, payer string, signedVAA []byte) (*entity.WrappedTransaction, error)
}
