package service

import (
	"context"

	"bridge_tvl/internal/app/port"
	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/pkg/utils"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SolanaTVLSource reports SPL tokens held by the bridge custody account.
type SolanaTVLSource struct {
	custody  string
	accounts port.CustodyAccountLister
	metadata port.MetadataResolver
	prices   port.BatchPricer
	logger   port.Logger
}

// NewSolanaTVLSource creates a source for the network's custody address.
func NewSolanaTVLSource(
	netDef entity.NetworkDefinition,
	accounts port.CustodyAccountLister,
	metadata port.MetadataResolver,
	prices port.BatchPricer,
	logger port.Logger,
) *SolanaTVLSource {
	return &SolanaTVLSource{
		custody:  netDef.CustodyAddress,
		accounts: accounts,
		metadata: metadata,
		prices:   prices,
		logger:   logger,
	}
}

func (s *SolanaTVLSource) Chain() entity.ChainID {
	return entity.ChainSolana
}

// FetchTVL fails closed: when metadata or prices cannot be fully resolved it
// returns no rows and no error. Only the account enumeration reports failure.
func (s *SolanaTVLSource) FetchTVL(ctx context.Context) ([]entity.TVLEntry, error) {
	accounts, err := s.accounts.GetTokenAccounts(ctx, s.custody)
	if err != nil {
		s.logger.Warn("Custody token account enumeration failed", "owner", s.custody, "error", err)
		return nil, &SourceError{Chain: entity.ChainSolana, Cause: err}
	}
	if len(accounts) == 0 {
		return []entity.TVLEntry{}, nil
	}

	mints := lo.Uniq(lo.Map(accounts, func(a entity.ParsedTokenAccount, _ int) string {
		return a.MintOrContract
	}))

	var (
		meta   map[string]entity.TokenMetadata
		prices map[string]*float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meta, err = s.metadata.Metadata(gctx, mints)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = s.prices.Prices(gctx, mints)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("Solana metadata or prices unavailable, withholding rows", "mints", len(mints), "error", err)
		return []entity.TVLEntry{}, nil
	}
	if len(meta) == 0 {
		s.logger.Warn("No metadata resolved for custody mints, withholding rows", "mints", len(mints))
		return []entity.TVLEntry{}, nil
	}

	return BuildSolanaTVL(accounts, meta, prices), nil
}

// BuildSolanaTVL emits one entry per account. Accounts whose mint has no
// metadata are kept with empty descriptive fields.
func BuildSolanaTVL(accounts []entity.ParsedTokenAccount, meta map[string]entity.TokenMetadata, prices map[string]*float64) []entity.TVLEntry {
	out := make([]entity.TVLEntry, 0, len(accounts))
	for _, acct := range accounts {
		md := meta[acct.MintOrContract]
		price := prices[acct.MintOrContract]

		entry := entity.TVLEntry{
			Logo:          md.LogoURI,
			Symbol:        md.Symbol,
			Name:          md.Name,
			Amount:        acct.UIAmountString,
			QuotePrice:    price,
			AssetAddress:  acct.MintOrContract,
			OriginChainID: entity.ChainSolana,
			OriginChain:   entity.ChainSolana.String(),
		}
		if entry.Amount == "" {
			entry.Amount = "0"
		}
		if price != nil {
			v := utils.SafeParse(entry.Amount).Mul(decimal.NewFromFloat(*price)).InexactFloat64()
			entry.TotalValue = &v
		}
		out = append(out, entry)
	}
	return out
}
