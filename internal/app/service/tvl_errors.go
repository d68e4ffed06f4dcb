package service

import "bridge_tvl/internal/domain/entity"

// SourceError is returned by a TVL source. Its message is the fixed user-facing
// string for the chain; the underlying cause is only reachable through Unwrap.
type SourceError struct {
	Chain entity.ChainID
	Cause error
}

func (e *SourceError) Error() string {
	return TVLErrorMessage(e.Chain)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// TVLErrorMessage returns the user-facing message for a failed chain source.
func TVLErrorMessage(chain entity.ChainID) string {
	switch chain {
	case entity.ChainEthereum:
		return "Unable to retrieve Ethereum TVL."
	case entity.ChainBSC:
		return "Unable to retrieve BSC TVL."
	case entity.ChainSolana:
		return "Unable to retrieve Solana locked tokens."
	case entity.ChainTerra:
		return "Unable to retrieve Terra TVL."
	default:
		return "Unable to retrieve TVL."
	}
}
