// pkg/network/cosmos/signing_test.go
package cosmos

import (
	"context"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	signingtypes "github.com/cosmos/cosmos-sdk/types/tx/signing"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

func TestLoadPrivateKey(t *testing.T) {
	tests := []struct {
		name        string
		keyBytes    []byte
		expectError bool
	}{
		{name: "valid 32-byte key", keyBytes: make([]byte, 32)},
		{name: "too short key", keyBytes: make([]byte, 16), expectError: true},
		{name: "too long key", keyBytes: make([]byte, 64), expectError: true},
		{name: "nil key", keyBytes: nil, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			privKey, err := LoadPrivateKey(tt.keyBytes)
			if tt.expectError {
				require.ErrorContains(t, err, "invalid private key length")
				require.Nil(t, privKey)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, privKey)
		})
	}
}

func newTestSigner(t *testing.T) (*Signer, *Codec) {
	t.Helper()
	require.NoError(t, SetupSDKConfig("terra"))
	cdc, err := NewCodec("terra")
	require.NoError(t, err)

	priv := secp256k1.GenPrivKeyFromSecret([]byte("walletops signer test"))
	signer, err := NewSigner(priv, SignerConfig{
		ChainID:      "columbus-5",
		Bech32Prefix: "terra",
		Memo:         "walletops",
		TxConfig:     cdc.TxConfig,
	})
	require.NoError(t, err)
	return signer, cdc
}

func delegateSet(sender string) *network.MessageSet {
	req := network.DelegateRequest{Validator: "terravaloper1validator", Amount: sdk.NewInt64Coin("uluna", 1000)}
	return &network.MessageSet{
		Kind:    req.Kind(),
		Request: req,
		Sender:  sender,
		Msgs: []sdk.Msg{&stakingtypes.MsgDelegate{
			DelegatorAddress: sender,
			ValidatorAddress: req.Validator,
			Amount:           req.Amount,
		}},
	}
}

func TestSigner_Address(t *testing.T) {
	signer, _ := newTestSigner(t)
	assert.Regexp(t, `^terra1[0-9a-z]{38}$`, signer.Address())
}

func TestSigner_SignIsDeterministic(t *testing.T) {
	signer, cdc := newTestSigner(t)
	msgs := delegateSet(signer.Address())
	account := network.AccountState{Address: signer.Address(), AccountNumber: 12, Sequence: 3}
	fee := network.FeeQuote{Amount: sdkmath.NewInt(5000000), Denom: "uluna", GasLimit: 200000}

	first, err := signer.Sign(context.Background(), msgs, account, fee)
	require.NoError(t, err)
	second, err := signer.Sign(context.Background(), msgs, account, fee)
	require.NoError(t, err)
	assert.Equal(t, first.TxBytes, second.TxBytes)
	assert.Equal(t, uint64(3), first.Sequence)
	assert.Equal(t, uint64(3), account.Sequence, "account is not mutated")

	decoded, err := cdc.TxConfig.TxDecoder()(first.TxBytes)
	require.NoError(t, err)
	wrapped, err := cdc.TxConfig.WrapTxBuilder(decoded)
	require.NoError(t, err)

	tx := wrapped.GetTx()
	assert.Equal(t, uint64(200000), tx.GetGas())
	assert.Equal(t, sdk.NewCoins(sdk.NewInt64Coin("uluna", 5000000)), tx.GetFee())

	sigs, err := tx.GetSignaturesV2()
	require.NoError(t, err)
	require.Len(t, sigs, 1)
	assert.Equal(t, uint64(3), sigs[0].Sequence)
	data, ok := sigs[0].Data.(*signingtypes.SingleSignatureData)
	require.True(t, ok)
	assert.NotEmpty(t, data.Signature)
}

func TestSigner_SequenceChangesBytes(t *testing.T) {
	signer, _ := newTestSigner(t)
	msgs := delegateSet(signer.Address())
	fee := network.FeeQuote{Amount: sdkmath.NewInt(1), Denom: "uluna", GasLimit: 100000}

	a, err := signer.Sign(context.Background(), msgs, network.AccountState{AccountNumber: 1, Sequence: 1}, fee)
	require.NoError(t, err)
	b, err := signer.Sign(context.Background(), msgs, network.AccountState{AccountNumber: 1, Sequence: 2}, fee)
	require.NoError(t, err)
	assert.NotEqual(t, a.TxBytes, b.TxBytes)
}

func TestSigner_SimulationBytes(t *testing.T) {
	signer, cdc := newTestSigner(t)
	msgs := delegateSet(signer.Address())

	txBytes, err := signer.SimulationBytes(msgs, network.AccountState{AccountNumber: 1, Sequence: 9})
	require.NoError(t, err)

	decoded, err := cdc.TxConfig.TxDecoder()(txBytes)
	require.NoError(t, err)
	wrapped, err := cdc.TxConfig.WrapTxBuilder(decoded)
	require.NoError(t, err)

	tx := wrapped.GetTx()
	assert.Zero(t, tx.GetGas())
	assert.True(t, tx.GetFee().IsZero())

	sigs, err := tx.GetSignaturesV2()
	require.NoError(t, err)
	require.Len(t, sigs, 1)
	assert.NotNil(t, sigs[0].PubKey)
	assert.Equal(t, uint64(9), sigs[0].Sequence)
}

func TestSigner_RejectsMissingGasLimit(t *testing.T) {
	signer, _ := newTestSigner(t)
	_, err := signer.Sign(context.Background(), delegateSet(signer.Address()), network.AccountState{}, network.FeeQuote{Denom: "uluna"})
	require.Error(t, err)
}

func TestSigner_RejectsEmptyMessageSet(t *testing.T) {
	signer, _ := newTestSigner(t)
	_, err := signer.SimulationBytes(&network.MessageSet{}, network.AccountState{})
	require.ErrorContains(t, err, "no messages")
}
