// pkg/network/cosmos/config.go
package cosmos

import (
	"fmt"
	"sync"

	"cosmossdk.io/x/tx/signing"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/x/auth/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	vestingtypes "github.com/cosmos/cosmos-sdk/x/auth/vesting/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/cosmos/gogoproto/proto"
)

// sdkConfigMu protects concurrent access to the SDK global config.
var sdkConfigMu sync.Mutex

// Codec bundles the interface registry and the tx config of one chain profile.
type Codec struct {
	Registry codectypes.InterfaceRegistry
	Proto    *codec.ProtoCodec
	TxConfig client.TxConfig
}

// NewCodec creates the codec used to encode, sign and decode transactions
// for a chain with the given bech32 account prefix.
func NewCodec(bech32Prefix string) (*Codec, error) {
	if bech32Prefix == "" {
		return nil, fmt.Errorf("bech32 prefix cannot be empty")
	}

	registry, err := codectypes.NewInterfaceRegistryWithOptions(codectypes.InterfaceRegistryOptions{
		ProtoFiles: proto.HybridResolver,
		SigningOptions: signing.Options{
			AddressCodec:          address.NewBech32Codec(bech32Prefix),
			ValidatorAddressCodec: address.NewBech32Codec(bech32Prefix + "valoper"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create interface registry: %w", err)
	}

	std.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	vestingtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	distrtypes.RegisterInterfaces(registry)
	govv1.RegisterInterfaces(registry)
	govv1beta1.RegisterInterfaces(registry)
	stakingtypes.RegisterInterfaces(registry)
	wasmtypes.RegisterInterfaces(registry)

	protoCodec := codec.NewProtoCodec(registry)

	txConfig, err := tx.NewTxConfigWithOptions(protoCodec, tx.ConfigOptions{
		EnabledSignModes: tx.DefaultSignModes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tx config: %w", err)
	}

	return &Codec{
		Registry: registry,
		Proto:    protoCodec,
		TxConfig: txConfig,
	}, nil
}

// SetupSDKConfig configures the Cosmos SDK with the given bech32 prefix.
// The config is not sealed so tests can switch prefixes.
func SetupSDKConfig(bech32Prefix string) error {
	if bech32Prefix == "" {
		return fmt.Errorf("bech32 prefix cannot be empty")
	}

	sdkConfigMu.Lock()
	defer sdkConfigMu.Unlock()

	config := sdk.GetConfig()
	config.SetBech32PrefixForAccount(bech32Prefix, bech32Prefix+"pub")
	config.SetBech32PrefixForValidator(bech32Prefix+"valoper", bech32Prefix+"valoperpub")
	config.SetBech32PrefixForConsensusNode(bech32Prefix+"valcons", bech32Prefix+"valconspub")

	return nil
}
