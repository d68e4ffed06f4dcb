package utils

import (
	"fmt"
	"math/big"
	"strings"

	"bridge_tvl/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// FormatUnits renders amount / 10^decimals as an exact decimal string.
// Example: amount=1500000000000000000, decimals=18 => "1.5"
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}

	abs := new(big.Int).Abs(amount)
	base := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	intPart, frac := new(big.Int).QuoRem(abs, base, new(big.Int))

	sign := ""
	if amount.Sign() < 0 {
		sign = "-"
	}
	if frac.Sign() == 0 {
		return sign + intPart.String()
	}

	fracStr := frac.String()
	fracStr = strings.Repeat("0", int(decimals)-len(fracStr)) + fracStr
	fracStr = strings.TrimRight(fracStr, "0")
	return sign + intPart.String() + "." + fracStr
}

// ParseUnits is the inverse of FormatUnits for non-negative integer strings.
func ParseUnits(raw string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer amount %q", raw)
	}
	return n, nil
}

// NewParsedTokenAccount builds a ParsedTokenAccount from a raw on-chain amount.
func NewParsedTokenAccount(address, mintOrContract, rawAmount string, decimals uint8) (*entity.ParsedTokenAccount, error) {
	n, err := ParseUnits(rawAmount)
	if err != nil {
		return nil, err
	}
	uiString := FormatUnits(n, decimals)
	return &entity.ParsedTokenAccount{
		Address:        address,
		MintOrContract: mintOrContract,
		RawAmount:      n.String(),
		Decimals:       decimals,
		UIAmount:       SafeParse(uiString).InexactFloat64(),
		UIAmountString: uiString,
	}, nil
}

// SafeParse parses a string into a decimal, returning zero for invalid or empty input.
func SafeParse(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Float64Ptr is a small helper for optional quote fields.
func Float64Ptr(v float64) *float64 {
	return &v
}
