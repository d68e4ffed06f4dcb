package service

import (
	"context"
	"fmt"
	"strings"

	"bridge_tvl/internal/app/port"
	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/pkg/utils"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	// NativeTerraDecimals is the precision of every native Terra denom.
	NativeTerraDecimals = 6
	// StableDenom is the denom the swap-rate table is quoted in.
	StableDenom = "uusd"
)

// TerraTVLSource reports native coins held by the Terra token bridge, valued through the market swap rates.
type TerraTVLSource struct {
	custody     string
	balances    port.NativeBalanceReader
	rates       port.SwapRateSource
	iconBaseURL string
	logger      port.Logger
}

// NewTerraTVLSource creates a Terra source. iconBaseURL is the directory of denom icons.
func NewTerraTVLSource(
	netDef entity.NetworkDefinition,
	balances port.NativeBalanceReader,
	rates port.SwapRateSource,
	iconBaseURL string,
	logger port.Logger,
) *TerraTVLSource {
	return &TerraTVLSource{
		custody:     netDef.CustodyAddress,
		balances:    balances,
		rates:       rates,
		iconBaseURL: strings.TrimRight(iconBaseURL, "/"),
		logger:      logger,
	}
}

func (s *TerraTVLSource) Chain() entity.ChainID {
	return entity.ChainTerra
}

// FetchTVL fails only when the balances cannot be read; an unavailable swap-rate
// table leaves every non-stable denom valued at zero.
func (s *TerraTVLSource) FetchTVL(ctx context.Context) ([]entity.TVLEntry, error) {
	coins, err := s.balances.NativeBalances(ctx, s.custody)
	if err != nil {
		s.logger.Warn("Terra bank balance request failed", "address", s.custody, "error", err)
		return nil, &SourceError{Chain: entity.ChainTerra, Cause: err}
	}

	rates, err := s.rates.SwapRates(ctx)
	if err != nil {
		s.logger.Debug("Swap rates unavailable, non-stable denoms valued at zero", "error", err)
		rates = nil
	}
	return BuildTerraTVL(coins, rates, s.iconBaseURL), nil
}

// BuildTerraTVL maps native balances to entries.
func BuildTerraTVL(coins []entity.Coin, rates []entity.SwapRate, iconBaseURL string) []entity.TVLEntry {
	out := make([]entity.TVLEntry, 0, len(coins))
	for _, coin := range coins {
		raw, err := utils.ParseUnits(coin.Amount)
		if err != nil {
			continue
		}
		amount := utils.FormatUnits(raw, NativeTerraDecimals)
		symbol := FormatNativeDenom(coin.Denom)
		quote, total := terraQuote(coin.Denom, utils.SafeParse(amount), rates)

		out = append(out, entity.TVLEntry{
			Logo:          NativeTerraIcon(iconBaseURL, symbol),
			Symbol:        symbol,
			Amount:        amount,
			TotalValue:    utils.Float64Ptr(total),
			QuotePrice:    utils.Float64Ptr(quote),
			AssetAddress:  coin.Denom,
			OriginChainID: entity.ChainTerra,
			OriginChain:   entity.ChainTerra.String(),
		})
	}
	return out
}

// terraQuote returns the USD price per unit and the USD value of amount.
// A denom without a usable swap rate is worth zero.
func terraQuote(denom string, amount decimal.Decimal, rates []entity.SwapRate) (float64, float64) {
	if denom == StableDenom {
		return 1, amount.InexactFloat64()
	}
	match, ok := lo.Find(rates, func(r entity.SwapRate) bool { return r.Denom == denom })
	if !ok {
		return 0, 0
	}
	rate := utils.SafeParse(match.SwapRate)
	if !rate.IsPositive() {
		return 0, 0
	}
	return decimal.NewFromInt(1).Div(rate).InexactFloat64(), amount.Div(rate).InexactFloat64()
}

// FormatNativeDenom turns a micro denom into its ticker: uluna is LUNA, other
// denoms take the first two letters of the unit plus T (uusd is UST, ukrw is KRT).
func FormatNativeDenom(denom string) string {
	if denom == "uluna" {
		return "LUNA"
	}
	if strings.HasPrefix(denom, "u") && len(denom) >= 3 {
		return strings.ToUpper(denom[1:3]) + "T"
	}
	return strings.ToUpper(denom)
}

// NativeTerraIcon returns the icon URL of a native symbol.
func NativeTerraIcon(iconBaseURL, symbol string) string {
	if iconBaseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s.png", iconBaseURL, symbol)
}
