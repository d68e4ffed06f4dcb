package wormhole

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"time"

	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/pkg/vaa"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testPrograms = Programs{
	TokenBridge: solana.MustPublicKeyFromBase58("wormDTUJ6AWPNvk59vGQbDvGJmqbDTdgWgAqcLBCgUb"),
	CoreBridge:  solana.MustPublicKeyFromBase58("worm2ZoG2kUd4vFXhvjh93UUH596ayRfgQ2MgjNMTth"),
}

func attestationVAA(t *testing.T) []byte {
	t.Helper()
	data := []byte{1, 0, 0, 0, 0, 0}
	data = binary.BigEndian.AppendUint32(data, 1700000000)
	data = binary.BigEndian.AppendUint32(data, 0)
	data = binary.BigEndian.AppendUint16(data, uint16(entity.ChainEthereum))
	emitter := make([]byte, 32)
	emitter[31] = 0x01
	data = append(data, emitter...)
	data = binary.BigEndian.AppendUint64(data, 9)
	data = append(data, 1)

	data = append(data, vaa.PayloadIDAssetMeta)
	token := make([]byte, 32)
	token[31] = 0xaa
	data = append(data, token...)
	data = binary.BigEndian.AppendUint16(data, uint16(entity.ChainEthereum))
	data = append(data, 18)
	symbol := make([]byte, 32)
	copy(symbol, "WETH")
	name := make([]byte, 32)
	copy(name, "Wrapped Ether")
	return append(append(data, symbol...), name...)
}

type fakeTxRPC struct {
	mu         sync.Mutex
	statuses   []bool
	statusErr  error
	sent       *solana.Transaction
	sendErr    error
	polls      int
	fetchedTxs int
}

func (f *fakeTxRPC) LatestBlockhash(context.Context) (solana.Hash, error) {
	return solana.Hash{1, 2, 3}, nil
}

func (f *fakeTxRPC) SendTransaction(_ context.Context, tx *solana.Transaction) (solana.Signature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return solana.Signature{}, f.sendErr
	}
	f.sent = tx
	return tx.Signatures[0], nil
}

func (f *fakeTxRPC) SignatureConfirmed(context.Context, solana.Signature) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.statusErr != nil {
		return true, f.statusErr
	}
	if len(f.statuses) == 0 {
		return false, nil
	}
	next := f.statuses[0]
	f.statuses = f.statuses[1:]
	return next, nil
}

func (f *fakeTxRPC) GetTransaction(context.Context, solana.Signature) (*rpc.GetTransactionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchedTxs++
	bt := solana.UnixTimeSeconds(1700000100)
	return &rpc.GetTransactionResult{
		Slot:      1234,
		BlockTime: &bt,
		Meta:      &rpc.TransactionMeta{Fee: 5000},
	}, nil
}

func newCreator(f *fakeTxRPC, signer solana.PrivateKey, timeout time.Duration) *SolanaWrappedCreator {
	return NewSolanaWrappedCreator(f, testPrograms, signer, timeout, time.Millisecond, zap.NewNop())
}

func TestCreateWrappedInstructionLayout(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	parsed, err := vaa.Parse(attestationVAA(t))
	require.NoError(t, err)

	ix, err := testPrograms.CreateWrappedInstruction(payer, parsed)
	require.NoError(t, err)

	assert.Equal(t, testPrograms.TokenBridge, ix.ProgramID())
	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{InstructionCreateWrapped}, data)

	accounts := ix.Accounts()
	require.Len(t, accounts, 14)
	assert.Equal(t, payer, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsSigner)
	assert.True(t, accounts[0].IsWritable)

	posted, err := testPrograms.PostedVAAAddress(parsed)
	require.NoError(t, err)
	assert.Equal(t, posted, accounts[3].PublicKey)

	meta, err := parsed.AssetMeta()
	require.NoError(t, err)
	mint, err := testPrograms.WrappedMintAddress(meta.TokenChain, meta.TokenAddress)
	require.NoError(t, err)
	assert.Equal(t, mint, accounts[5].PublicKey)
	assert.True(t, accounts[5].IsWritable)

	assert.Equal(t, solana.SysVarRentPubkey, accounts[9].PublicKey)
	assert.Equal(t, testPrograms.CoreBridge, accounts[11].PublicKey)
	assert.Equal(t, solana.TokenProgramID, accounts[12].PublicKey)
}

func TestCreateWrappedSubmitsAndConfirms(t *testing.T) {
	signer := solana.NewWallet().PrivateKey
	f := &fakeTxRPC{statuses: []bool{false, false, true}}

	out, err := newCreator(f, signer, time.Second).CreateWrapped(context.Background(), signer.PublicKey().String(), attestationVAA(t))
	require.NoError(t, err)

	require.NotNil(t, f.sent)
	require.NoError(t, f.sent.VerifySignatures())
	assert.Equal(t, signer.PublicKey(), f.sent.Message.AccountKeys[0])
	assert.Equal(t, 3, f.polls)

	assert.Equal(t, entity.ChainSolana, out.Chain)
	assert.Equal(t, f.sent.Signatures[0].String(), out.Signature)
	assert.Equal(t, uint64(1234), out.Slot)
	assert.Equal(t, uint64(5000), out.Fee)
	require.NotNil(t, out.BlockTime)
	assert.Equal(t, time.Unix(1700000100, 0).UTC(), *out.BlockTime)
}

func TestCreateWrappedOnChainFailureIsNotRetried(t *testing.T) {
	signer := solana.NewWallet().PrivateKey
	f := &fakeTxRPC{statusErr: errors.New("InstructionError")}

	_, err := newCreator(f, signer, time.Second).CreateWrapped(context.Background(), signer.PublicKey().String(), attestationVAA(t))
	require.Error(t, err)
	assert.Equal(t, 1, f.polls)
	assert.Equal(t, 0, f.fetchedTxs)
}

func TestCreateWrappedConfirmationTimeout(t *testing.T) {
	signer := solana.NewWallet().PrivateKey
	f := &fakeTxRPC{}

	_, err := newCreator(f, signer, 20*time.Millisecond).CreateWrapped(context.Background(), signer.PublicKey().String(), attestationVAA(t))
	require.Error(t, err)
	assert.Equal(t, 0, f.fetchedTxs)
}

func TestCreateWrappedRejectsBadInput(t *testing.T) {
	signer := solana.NewWallet().PrivateKey
	f := &fakeTxRPC{}
	c := newCreator(f, signer, time.Second)

	_, err := c.CreateWrapped(context.Background(), "bogus", attestationVAA(t))
	assert.ErrorIs(t, err, entity.ErrInvalidAddress)

	_, err = c.CreateWrapped(context.Background(), solana.NewWallet().PublicKey().String(), attestationVAA(t))
	assert.ErrorIs(t, err, ErrPayerMismatch)

	_, err = c.CreateWrapped(context.Background(), signer.PublicKey().String(), []byte{1, 2})
	assert.ErrorIs(t, err, entity.ErrInvalidVAA)

	f.sendErr = errors.New("blockhash not found")
	_, err = c.CreateWrapped(context.Background(), signer.PublicKey().String(), attestationVAA(t))
	assert.Error(t, err)
	assert.Nil(t, f.sent)
	assert.Equal(t, 0, f.polls)
}

func TestProgramsFor(t *testing.T) {
	p, err := ProgramsFor(entity.NetworkDefinition{
		TokenBridgeAddress: testPrograms.TokenBridge.String(),
		CoreBridgeAddress:  testPrograms.CoreBridge.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, testPrograms, p)

	_, err = ProgramsFor(entity.NetworkDefinition{TokenBridgeAddress: "nope"})
	assert.ErrorIs(t, err, entity.ErrInvalidAddress)
}
