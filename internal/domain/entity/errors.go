package entity

import "errors"

var (
	ErrUnsupportedChain = errors.New("unsupported chain")
	ErrInvalidAddress   = errors.New("invalid address")
	ErrNoTokenAccount   = errors.New("no token account for mint")
	ErrNoMarket         = errors.New("no market for token")
	ErrInvalidVAA       = errors.New("invalid vaa")
)
