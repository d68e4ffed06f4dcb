package vaa

import (
	"encoding/binary"
	"fmt"
	"strings"

	"bridge_tvl/internal/domain/entity"
)

// PayloadIDAssetMeta identifies a token bridge attestation payload.
const PayloadIDAssetMeta = 2

const assetMetaLen = 100

// AssetMeta is the token bridge attestation of a foreign token.
type AssetMeta struct {
	TokenAddress [32]byte
	TokenChain   uint16
	Decimals     uint8
	Symbol       string
	Name         string
}

// ParseAssetMeta decodes an attestation payload.
func ParseAssetMeta(payload []byte) (*AssetMeta, error) {
	if len(payload) < assetMetaLen {
		return nil, fmt.Errorf("%w: asset meta payload is %d bytes", entity.ErrInvalidVAA, len(payload))
	}
	if payload[0] != PayloadIDAssetMeta {
		return nil, fmt.Errorf("%w: payload id %d is not an attestation", entity.ErrInvalidVAA, payload[0])
	}
	m := &AssetMeta{
		TokenChain: binary.BigEndian.Uint16(payload[33:35]),
		Decimals:   payload[35],
		Symbol:     strings.TrimRight(string(payload[36:68]), "\x00"),
		Name:       strings.TrimRight(string(payload[68:100]), "\x00"),
	}
	copy(m.TokenAddress[:], payload[1:33])
	return m, nil
}

// AssetMeta decodes the VAA payload as an attestation.
func (v *VAA) AssetMeta() (*AssetMeta, error) {
	return ParseAssetMeta(v.Payload)
}

// TokenChainID returns the origin chain of the attested token.
func (m *AssetMeta) TokenChainID() entity.ChainID {
	return entity.ChainID(m.TokenChain)
}
