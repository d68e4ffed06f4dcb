package wormhole

import (
	"encoding/binary"
	"fmt"

	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/infrastructure/tokenloader"
	"bridge_tvl/internal/pkg/vaa"

	"github.com/gagliardetto/solana-go"
)

// InstructionCreateWrapped is the token bridge instruction index of CreateWrapped.
const InstructionCreateWrapped = 7

// Programs are the deployed bridge programs on Solana.
type Programs struct {
	TokenBridge solana.PublicKey
	CoreBridge  solana.PublicKey
}

// ProgramsFor reads the bridge program ids of the Solana network definition.
func ProgramsFor(netDef entity.NetworkDefinition) (Programs, error) {
	tokenBridge, err := solana.PublicKeyFromBase58(netDef.TokenBridgeAddress)
	if err != nil {
		return Programs{}, fmt.Errorf("%w: token bridge %q: %v", entity.ErrInvalidAddress, netDef.TokenBridgeAddress, err)
	}
	coreBridge, err := solana.PublicKeyFromBase58(netDef.CoreBridgeAddress)
	if err != nil {
		return Programs{}, fmt.Errorf("%w: core bridge %q: %v", entity.ErrInvalidAddress, netDef.CoreBridgeAddress, err)
	}
	return Programs{TokenBridge: tokenBridge, CoreBridge: coreBridge}, nil
}

func be16(v uint16) []byte {
	return binary.BigEndian.AppendUint16(nil, v)
}

func be64(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}

func derive(program solana.PublicKey, seeds ...[]byte) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(seeds, program)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive address under %s: %w", program, err)
	}
	return addr, nil
}

// WrappedMintAddress derives the mint of the wrapped representation of a foreign token.
func (p Programs) WrappedMintAddress(tokenChain uint16, tokenAddress [32]byte) (solana.PublicKey, error) {
	return derive(p.TokenBridge, []byte("wrapped"), be16(tokenChain), tokenAddress[:])
}

// PostedVAAAddress derives the core bridge account holding a posted VAA.
func (p Programs) PostedVAAAddress(v *vaa.VAA) (solana.PublicKey, error) {
	hash := v.BodyHash()
	return derive(p.CoreBridge, []byte("PostedVAA"), hash[:])
}

// CreateWrappedInstruction builds the token bridge CreateWrapped instruction for an attestation VAA.
// The VAA must already be posted to the core bridge.
func (p Programs) CreateWrappedInstruction(payer solana.PublicKey, v *vaa.VAA) (solana.Instruction, error) {
	meta, err := v.AssetMeta()
	if err != nil {
		return nil, err
	}

	config, err := derive(p.TokenBridge, []byte("config"))
	if err != nil {
		return nil, err
	}
	endpoint, err := derive(p.TokenBridge, be16(v.EmitterChain), v.EmitterAddress[:])
	if err != nil {
		return nil, err
	}
	postedVAA, err := p.PostedVAAAddress(v)
	if err != nil {
		return nil, err
	}
	claim, err := derive(p.TokenBridge, v.EmitterAddress[:], be16(v.EmitterChain), be64(v.Sequence))
	if err != nil {
		return nil, err
	}
	mint, err := p.WrappedMintAddress(meta.TokenChain, meta.TokenAddress)
	if err != nil {
		return nil, err
	}
	wrappedMeta, err := derive(p.TokenBridge, []byte("meta"), mint[:])
	if err != nil {
		return nil, err
	}
	splMetadata, err := tokenloader.MetadataAddress(mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive metadata address of %s: %w", mint, err)
	}
	mintSigner, err := derive(p.TokenBridge, []byte("mint_signer"))
	if err != nil {
		return nil, err
	}

	// Order is fixed by the program.
	accounts := []*solana.AccountMeta{
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: config, IsSigner: false, IsWritable: false},
		{PublicKey: endpoint, IsSigner: false, IsWritable: false},
		{PublicKey: postedVAA, IsSigner: false, IsWritable: false},
		{PublicKey: claim, IsSigner: false, IsWritable: true},
		{PublicKey: mint, IsSigner: false, IsWritable: true},
		{PublicKey: wrappedMeta, IsSigner: false, IsWritable: true},
		{PublicKey: splMetadata, IsSigner: false, IsWritable: true},
		{PublicKey: mintSigner, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SysVarRentPubkey, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: p.CoreBridge, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: tokenloader.MetaplexProgramID, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(p.TokenBridge, accounts, []byte{InstructionCreateWrapped}), nil
}
