// pkg/network/cosmos/signing.go
package cosmos

import (
	"context"
	"fmt"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/tx"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	signingtypes "github.com/cosmos/cosmos-sdk/types/tx/signing"
	xauthsigning "github.com/cosmos/cosmos-sdk/x/auth/signing"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

// LoadPrivateKey loads a secp256k1 private key from bytes.
// Expects 32 bytes for secp256k1.
func LoadPrivateKey(privKeyBytes []byte) (cryptotypes.PrivKey, error) {
	if len(privKeyBytes) != 32 {
		return nil, fmt.Errorf("invalid private key length: expected 32, got %d", len(privKeyBytes))
	}
	return &secp256k1.PrivKey{Key: privKeyBytes}, nil
}

// Signer signs SIGN_MODE_DIRECT transactions with one secp256k1 key.
type Signer struct {
	priv     cryptotypes.PrivKey
	address  string
	chainID  string
	memo     string
	txConfig client.TxConfig
}

// SignerConfig holds the chain parameters a Signer needs.
type SignerConfig struct {
	ChainID      string
	Bech32Prefix string
	Memo         string
	TxConfig     client.TxConfig
}

// NewSigner creates a Signer for priv.
func NewSigner(priv cryptotypes.PrivKey, cfg SignerConfig) (*Signer, error) {
	if priv == nil {
		return nil, fmt.Errorf("private key required for signing")
	}
	if cfg.ChainID == "" {
		return nil, fmt.Errorf("chain ID is required")
	}
	if cfg.TxConfig == nil {
		return nil, fmt.Errorf("tx config is required")
	}

	address, err := bech32.ConvertAndEncode(cfg.Bech32Prefix, priv.PubKey().Address())
	if err != nil {
		return nil, fmt.Errorf("encode address: %w", err)
	}

	return &Signer{
		priv:     priv,
		address:  address,
		chainID:  cfg.ChainID,
		memo:     cfg.Memo,
		txConfig: cfg.TxConfig,
	}, nil
}

// Address returns the bech32 account address of the key.
func (s *Signer) Address() string {
	return s.address
}

// SimulationBytes encodes msgs with no fee and an empty signature that carries the public key.
func (s *Signer) SimulationBytes(msgs *network.MessageSet, account network.AccountState) ([]byte, error) {
	builder, err := s.newTxBuilder(msgs, 0, sdk.NewCoins())
	if err != nil {
		return nil, err
	}

	if err := builder.SetSignatures(s.emptySignature(account.Sequence)); err != nil {
		return nil, fmt.Errorf("failed to set simulation signature: %w", err)
	}

	txBytes, err := s.txConfig.TxEncoder()(builder.GetTx())
	if err != nil {
		return nil, fmt.Errorf("failed to encode simulation tx: %w", err)
	}
	return txBytes, nil
}

// Sign builds the transaction with the quoted fee and signs it at account.Sequence.
func (s *Signer) Sign(ctx context.Context, msgs *network.MessageSet, account network.AccountState, fee network.FeeQuote) (*network.SignedTx, error) {
	if fee.GasLimit == network.GasAuto {
		return nil, fmt.Errorf("fee quote has no gas limit")
	}

	builder, err := s.newTxBuilder(msgs, fee.GasLimit, sdk.NewCoins(fee.Coin()))
	if err != nil {
		return nil, err
	}

	// Direct mode signs the auth info, so the signer info must be present first.
	if err := builder.SetSignatures(s.emptySignature(account.Sequence)); err != nil {
		return nil, fmt.Errorf("failed to set signatures: %w", err)
	}

	signerData := xauthsigning.SignerData{
		Address:       s.address,
		ChainID:       s.chainID,
		AccountNumber: account.AccountNumber,
		Sequence:      account.Sequence,
		PubKey:        s.priv.PubKey(),
	}

	sig, err := tx.SignWithPrivKey(
		ctx,
		signingtypes.SignMode_SIGN_MODE_DIRECT,
		signerData,
		builder,
		s.priv,
		s.txConfig,
		account.Sequence,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := builder.SetSignatures(sig); err != nil {
		return nil, fmt.Errorf("failed to set signatures: %w", err)
	}

	txBytes, err := s.txConfig.TxEncoder()(builder.GetTx())
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	return &network.SignedTx{TxBytes: txBytes, Sequence: account.Sequence}, nil
}

func (s *Signer) newTxBuilder(msgs *network.MessageSet, gasLimit uint64, fee sdk.Coins) (client.TxBuilder, error) {
	if msgs == nil || len(msgs.Msgs) == 0 {
		return nil, fmt.Errorf("no messages to sign")
	}

	builder := s.txConfig.NewTxBuilder()
	if err := builder.SetMsgs(msgs.Msgs...); err != nil {
		return nil, fmt.Errorf("failed to set messages in transaction: %w", err)
	}
	builder.SetGasLimit(gasLimit)
	builder.SetFeeAmount(fee)
	builder.SetMemo(s.memo)
	return builder, nil
}

func (s *Signer) emptySignature(sequence uint64) signingtypes.SignatureV2 {
	return signingtypes.SignatureV2{
		PubKey: s.priv.PubKey(),
		Data: &signingtypes.SingleSignatureData{
			SignMode: signingtypes.SignMode_SIGN_MODE_DIRECT,
		},
		Sequence: sequence,
	}
}

var _ network.Signer = (*Signer)(nil)
