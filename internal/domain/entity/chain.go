package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// ChainID identifies a blockchain network. Values follow the bridge's own chain numbering.
type ChainID uint16

const (
	ChainUnset    ChainID = 0
	ChainSolana   ChainID = 1
	ChainEthereum ChainID = 2
	ChainTerra    ChainID = 3
	ChainBSC      ChainID = 4
)

// TVLPriority is the fixed order in which per-chain TVL results are merged
// and in which their errors take precedence.
var TVLPriority = [...]ChainID{ChainEthereum, ChainBSC, ChainSolana, ChainTerra}

// String returns the display name of the chain.
func (c ChainID) String() string {
	switch c {
	case ChainSolana:
		return "Solana"
	case ChainEthereum:
		return "Ethereum"
	case ChainTerra:
		return "Terra"
	case ChainBSC:
		return "Binance Smart Chain"
	default:
		return fmt.Sprintf("Chain(%d)", uint16(c))
	}
}

// Identifier returns the short lowercase key used in config files and URLs.
func (c ChainID) Identifier() string {
	switch c {
	case ChainSolana:
		return "solana"
	case ChainEthereum:
		return "ethereum"
	case ChainTerra:
		return "terra"
	case ChainBSC:
		return "bsc"
	default:
		return ""
	}
}

// IsEVM reports whether the chain speaks the Ethereum JSON-RPC dialect.
func (c ChainID) IsEVM() bool {
	return c == ChainEthereum || c == ChainBSC
}

// Valid reports whether c is one of the supported chains.
func (c ChainID) Valid() bool {
	switch c {
	case ChainSolana, ChainEthereum, ChainTerra, ChainBSC:
		return true
	default:
		return false
	}
}

// ParseChainID accepts an identifier ("bsc"), a display name ("Ethereum")
// or a numeric id ("1").
func ParseChainID(s string) (ChainID, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		c := ChainID(n)
		if !c.Valid() {
			return ChainUnset, fmt.Errorf("%w: %s", ErrUnsupportedChain, s)
		}
		return c, nil
	}
	switch strings.ToLower(s) {
	case "solana", "sol":
		return ChainSolana, nil
	case "ethereum", "eth":
		return ChainEthereum, nil
	case "terra":
		return ChainTerra, nil
	case "bsc", "binance smart chain", "bnb":
		return ChainBSC, nil
	}
	return ChainUnset, fmt.Errorf("%w: %s", ErrUnsupportedChain, s)
}
