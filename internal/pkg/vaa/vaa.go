package vaa

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"bridge_tvl/internal/domain/entity"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	headerLen    = 6
	signatureLen = 66
	bodyFixedLen = 51
)

// Signature is one guardian signature over the VAA digest.
type Signature struct {
	Index     uint8
	Signature [65]byte
}

// VAA is a parsed guardian-signed message.
type VAA struct {
	Version          uint8
	GuardianSetIndex uint32
	Signatures       []Signature
	Timestamp        time.Time
	Nonce            uint32
	EmitterChain     uint16
	EmitterAddress   [32]byte
	Sequence         uint64
	ConsistencyLevel uint8
	Payload          []byte

	body []byte
}

// Parse decodes a signed VAA. Signatures are not verified.
func Parse(data []byte) (*VAA, error) {
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", entity.ErrInvalidVAA, len(data))
	}
	v := &VAA{
		Version:          data[0],
		GuardianSetIndex: binary.BigEndian.Uint32(data[1:5]),
	}
	if v.Version != 1 {
		return nil, fmt.Errorf("%w: unsupported version %d", entity.ErrInvalidVAA, v.Version)
	}

	sigCount := int(data[5])
	bodyStart := headerLen + sigCount*signatureLen
	if len(data) < bodyStart+bodyFixedLen {
		return nil, fmt.Errorf("%w: truncated (%d signatures, %d bytes)", entity.ErrInvalidVAA, sigCount, len(data))
	}

	v.Signatures = make([]Signature, sigCount)
	for i := range v.Signatures {
		off := headerLen + i*signatureLen
		v.Signatures[i].Index = data[off]
		copy(v.Signatures[i].Signature[:], data[off+1:off+signatureLen])
	}

	body := data[bodyStart:]
	v.body = append([]byte(nil), body...)
	v.Timestamp = time.Unix(int64(binary.BigEndian.Uint32(body[0:4])), 0).UTC()
	v.Nonce = binary.BigEndian.Uint32(body[4:8])
	v.EmitterChain = binary.BigEndian.Uint16(body[8:10])
	copy(v.EmitterAddress[:], body[10:42])
	v.Sequence = binary.BigEndian.Uint64(body[42:50])
	v.ConsistencyLevel = body[50]
	v.Payload = append([]byte(nil), body[bodyFixedLen:]...)
	return v, nil
}

// Decode accepts a VAA as hex (optionally 0x prefixed) or standard base64.
func Decode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", entity.ErrInvalidVAA)
	}
	if h := strings.TrimPrefix(s, "0x"); isHex(h) {
		return hex.DecodeString(h)
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: neither hex nor base64: %v", entity.ErrInvalidVAA, err)
	}
	return b, nil
}

func isHex(s string) bool {
	if len(s) == 0 || len(s)%2 != 0 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// Body returns the signed portion of the VAA.
func (v *VAA) Body() []byte {
	return v.body
}

// BodyHash is keccak256 of the body. The Solana core bridge keys posted VAAs by it.
func (v *VAA) BodyHash() [32]byte {
	var h [32]byte
	copy(h[:], crypto.Keccak256(v.body))
	return h
}

// Digest is the double keccak256 the guardians sign.
func (v *VAA) Digest() [32]byte {
	var h [32]byte
	copy(h[:], crypto.Keccak256(crypto.Keccak256(v.body)))
	return h
}

// EmitterChainID returns the emitter chain as a domain chain id.
func (v *VAA) EmitterChainID() entity.ChainID {
	return entity.ChainID(v.EmitterChain)
}
