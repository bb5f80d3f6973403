package txengine

import (
	"context"
	"fmt"
	"math"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

// FeeResolver turns a dry run into a single-denom fee for one signer.
type FeeResolver struct {
	client   network.ChainClient
	signer   network.Signer
	feeDenom string
}

// NewFeeResolver creates a FeeResolver settling fees in feeDenom.
func NewFeeResolver(client network.ChainClient, signer network.Signer, feeDenom string) *FeeResolver {
	return &FeeResolver{client: client, signer: signer, feeDenom: feeDenom}
}

// Resolve simulates msgs at account and prices the resulting gas limit.
// gasLimit network.GasAuto derives the limit from the simulation and gasAdjustment.
func (f *FeeResolver) Resolve(ctx context.Context, msgs *network.MessageSet, account network.AccountState, gasLimit uint64, gasAdjustment float64) (*network.FeeQuote, error) {
	simBytes, err := f.signer.SimulationBytes(msgs, account)
	if err != nil {
		return nil, &Error{Kind: InvalidParameters, Op: "simulate", Err: err}
	}

	gasUsed, err := f.client.Simulate(ctx, simBytes)
	if err != nil {
		return nil, classify("simulate", err)
	}

	quote := &network.FeeQuote{
		Denom:         f.feeDenom,
		GasLimit:      gasLimit,
		GasAdjustment: gasAdjustment,
		GasUsed:       gasUsed,
		Sequence:      account.Sequence,
	}
	if gasLimit == network.GasAuto {
		quote.GasLimit = EstimateGasLimit(gasUsed, gasAdjustment)
		quote.AutoGas = true
	}

	prices, err := f.client.GasPrices(ctx)
	if err != nil {
		return nil, classify("gas prices", err)
	}

	fee, err := NormalizeFee(SuggestedFee(prices, quote.GasLimit), f.feeDenom)
	if err != nil {
		return nil, &Error{Kind: SimulationFailed, Op: "fee", Err: err}
	}
	quote.Amount = fee.Amount

	return quote, nil
}

// EstimateGasLimit returns ceil(gasUsed * gasAdjustment).
func EstimateGasLimit(gasUsed uint64, gasAdjustment float64) uint64 {
	return uint64(math.Ceil(float64(gasUsed) * gasAdjustment))
}

// SuggestedFee prices gasLimit in every denom of the gas price table, rounding up.
// Zero amounts are kept so a free denom can still be selected.
func SuggestedFee(prices sdk.DecCoins, gasLimit uint64) sdk.Coins {
	gas := sdkmath.NewIntFromUint64(gasLimit)
	basket := make(sdk.Coins, 0, len(prices))
	for _, p := range prices {
		basket = append(basket, sdk.Coin{
			Denom:  p.Denom,
			Amount: p.Amount.MulInt(gas).Ceil().TruncateInt(),
		})
	}
	return basket.Sort()
}

// NormalizeFee reduces a fee basket to the single coin in denom.
func NormalizeFee(basket sdk.Coins, denom string) (sdk.Coin, error) {
	for _, c := range basket {
		if c.Denom == denom {
			return c, nil
		}
	}
	return sdk.Coin{}, fmt.Errorf("no gas price for fee denom %s", denom)
}
