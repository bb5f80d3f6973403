// Package wallet stores encrypted wallet seeds and derives their signing keys.
package wallet

import (
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/tyler-smith/go-bip39"
)

// MnemonicEntropyBits is the entropy size for 24-word mnemonics.
const MnemonicEntropyBits = 256

// KeyOptions selects the derivation path and address format of a chain.
type KeyOptions struct {
	CoinType     uint32
	Bech32Prefix string
}

// GenerateMnemonic creates a new 24-word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// NormalizeMnemonic collapses whitespace and lowercases the words.
func NormalizeMnemonic(mnemonic string) string {
	return strings.ToLower(strings.Join(strings.Fields(mnemonic), " "))
}

// ValidateMnemonic checks word count, word list and checksum.
func ValidateMnemonic(mnemonic string) error {
	if !bip39.IsMnemonicValid(NormalizeMnemonic(mnemonic)) {
		return fmt.Errorf("invalid mnemonic")
	}
	return nil
}

// DeriveKey derives the first account key m/44'/coinType'/0'/0/0 of mnemonic.
func DeriveKey(mnemonic string, opts KeyOptions) (cryptotypes.PrivKey, error) {
	mnemonic = NormalizeMnemonic(mnemonic)
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}

	path := hd.CreateHDPath(opts.CoinType, 0, 0).String()
	derived, err := hd.Secp256k1.Derive()(mnemonic, "", path)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return hd.Secp256k1.Generate()(derived), nil
}

// Address encodes the account address of priv with prefix.
func Address(priv cryptotypes.PrivKey, prefix string) (string, error) {
	addr, err := bech32.ConvertAndEncode(prefix, priv.PubKey().Address())
	if err != nil {
		return "", fmt.Errorf("encode address: %w", err)
	}
	return addr, nil
}

// ValidateAddress checks that address is bech32 with the expected prefix.
func ValidateAddress(address, prefix string) error {
	hrp, _, err := bech32.DecodeAndConvert(address)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", address, err)
	}
	if hrp != prefix {
		return fmt.Errorf("invalid address %q: expected prefix %q, got %q", address, prefix, hrp)
	}
	return nil
}
