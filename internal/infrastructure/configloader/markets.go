package configloader

import "bridge_tvl/internal/domain/entity"

// DefaultSerumProgramID is the Serum DEX v3 program.
const DefaultSerumProgramID = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

// DefaultMarkets returns the symbol-keyed USDC markets used when the config has none.
func DefaultMarkets() map[string]entity.Market {
	return map[string]entity.Market{
		"SOL":  {Name: "SOL/USDC", Address: "9wFFyRfZBsuAha4YcuxcXLKwMxJR43S7fPfQLusDBzvT"},
		"SRM":  {Name: "SRM/USDC", Address: "ByRys5tuUWDgL73G8JBAEfkdFf8JWBzPBDHsBVQ5vbQA"},
		"RAY":  {Name: "RAY/USDC", Address: "2xiv8A5xrJ7RnGdxXB42uFEkYHJjszEhaJyKKt4WaLep"},
		"FTT":  {Name: "FTT/USDC", Address: "2Pbh1CvRVku1TgewMfycemghf6sU9EyuFDcNXqvRmSxc"},
		"ETH":  {Name: "ETH/USDC", Address: "4tSvZvnbyzHXLMTiFonMyxZoHmFqau1XArcRCVHLZ5gX"},
		"BTC":  {Name: "BTC/USDC", Address: "A8YFbxQYFVqKZaoYJLLUVcQiWP7G2MeEgW5wsAQgMvFw"},
		"USDT": {Name: "USDT/USDC", Address: "77quYg4MGneUdjgXCunt9GgM1usmrxKY31twEy3WHwcS"},
	}
}
