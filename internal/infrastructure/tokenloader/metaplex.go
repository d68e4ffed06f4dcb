package tokenloader

import (
	"context"
	"fmt"
	"strings"

	"bridge_tvl/internal/app/port"
	"bridge_tvl/internal/domain/entity"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// MetaplexProgramID is the token metadata program.
var MetaplexProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

// AccountDataReader fetches raw account data; a missing account yields nil at its index.
type AccountDataReader interface {
	GetMultipleAccountsData(ctx context.Context, keys []solana.PublicKey) ([][]byte, error)
}

// OnChainMetadata is the leading part of a Metaplex metadata account.
type OnChainMetadata struct {
	Key             uint8
	UpdateAuthority solana.PublicKey
	Mint            solana.PublicKey
	Name            string
	Symbol          string
	URI             string
}

// MetadataAddress derives the metadata PDA of a mint.
func MetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), MetaplexProgramID[:], mint[:]},
		MetaplexProgramID,
	)
	return addr, err
}

// DecodeMetadata decodes a metadata account. Strings are NUL padded on chain and are trimmed.
func DecodeMetadata(data []byte) (OnChainMetadata, error) {
	var meta OnChainMetadata
	if err := bin.NewBorshDecoder(data).Decode(&meta); err != nil {
		return OnChainMetadata{}, fmt.Errorf("failed to decode metaplex metadata: %w", err)
	}
	meta.Name = strings.TrimRight(meta.Name, "\x00")
	meta.Symbol = strings.TrimRight(meta.Symbol, "\x00")
	meta.URI = strings.TrimRight(meta.URI, "\x00")
	return meta, nil
}

// MetadataResolver implements port.MetadataResolver. Mints missing from the
// registry are looked up on chain when an account reader is configured.
type MetadataResolver struct {
	registry port.TokenRegistry
	accounts AccountDataReader
	logger   *zap.Logger
}

// NewMetadataResolver creates a resolver; accounts may be nil to disable the on-chain fallback.
func NewMetadataResolver(registry port.TokenRegistry, accounts AccountDataReader, logger *zap.Logger) *MetadataResolver {
	return &MetadataResolver{
		registry: registry,
		accounts: accounts,
		logger:   logger.Named("MetadataResolver"),
	}
}

// Metadata returns metadata for every mint it can resolve. A registry failure is returned as an error.
func (r *MetadataResolver) Metadata(ctx context.Context, mints []string) (map[string]entity.TokenMetadata, error) {
	tokens, err := r.registry.Tokens(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]entity.TokenMetadata, len(mints))
	var missing []string
	for _, mint := range lo.Uniq(mints) {
		if meta, ok := tokens[mint]; ok {
			out[mint] = meta
			continue
		}
		missing = append(missing, mint)
	}

	if len(missing) > 0 && r.accounts != nil {
		for mint, meta := range r.onChain(ctx, missing) {
			out[mint] = meta
		}
	}
	return out, nil
}

// onChain resolves what it can; failures only shrink the result.
func (r *MetadataResolver) onChain(ctx context.Context, mints []string) map[string]entity.TokenMetadata {
	keys := make([]solana.PublicKey, 0, len(mints))
	resolvedMints := make([]string, 0, len(mints))
	for _, mint := range mints {
		mintKey, err := solana.PublicKeyFromBase58(mint)
		if err != nil {
			continue
		}
		pda, err := MetadataAddress(mintKey)
		if err != nil {
			continue
		}
		keys = append(keys, pda)
		resolvedMints = append(resolvedMints, mint)
	}

	out := make(map[string]entity.TokenMetadata)
	if len(keys) == 0 {
		return out
	}

	data, err := r.accounts.GetMultipleAccountsData(ctx, keys)
	if err != nil {
		r.logger.Warn("Metaplex metadata lookup failed", zap.Int("count", len(keys)), zap.Error(err))
		return out
	}
	for i, raw := range data {
		if i >= len(resolvedMints) || len(raw) == 0 {
			continue
		}
		meta, err := DecodeMetadata(raw)
		if err != nil {
			r.logger.Debug("Skipping undecodable metadata", zap.String("mint", resolvedMints[i]), zap.Error(err))
			continue
		}
		out[resolvedMints[i]] = entity.TokenMetadata{
			Mint:    resolvedMints[i],
			Symbol:  meta.Symbol,
			Name:    meta.Name,
			ChainID: SolanaMainnetChainID,
		}
	}
	return out
}
