package entity

import "time"

// WrappedTransaction is the confirmed transaction that minted a wrapped asset.
type WrappedTransaction struct {
	Chain     ChainID    `json:"chain"`
	Signature string     `json:"signature"`
	Slot      uint64     `json:"slot"`
	BlockTime *time.Time `json:"blockTime,omitempty"`
	Fee       uint64     `json:"fee"`
	Err       any        `json:"err,omitempty"`
}
