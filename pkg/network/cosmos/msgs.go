// pkg/network/cosmos/msgs.go
package cosmos

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	sdkmath "cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

var (
	amountPattern   = regexp.MustCompile(`^(\d+)([a-zA-Z][a-zA-Z0-9/:._-]*)$`)
	gasPricePattern = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)([a-zA-Z][a-zA-Z0-9/:._-]*)$`)
)

// MessageBuilder builds chain messages for operation requests.
type MessageBuilder struct {
	// LegacyGov selects gov v1beta1 votes for nodes without gov v1.
	LegacyGov bool
}

// NewMessageBuilder returns a builder for the gov version reported by the node.
func NewMessageBuilder(legacyGov bool) *MessageBuilder {
	return &MessageBuilder{LegacyGov: legacyGov}
}

// Build validates req and converts it to the messages signed by sender.
func (b *MessageBuilder) Build(req network.OperationRequest, sender string) (*network.MessageSet, error) {
	if req == nil {
		return nil, &network.ParamError{Field: "operation", Message: "is required"}
	}
	if sender == "" {
		return nil, &network.ParamError{Kind: req.Kind(), Field: "sender", Message: "is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		msgs []sdk.Msg
		err  error
	)
	switch r := req.(type) {
	case network.VoteRequest:
		msgs, err = b.buildVote(sender, r)
	case network.DelegateRequest:
		msgs = []sdk.Msg{&stakingtypes.MsgDelegate{
			DelegatorAddress: sender,
			ValidatorAddress: r.Validator,
			Amount:           r.Amount,
		}}
	case network.WithdrawRequest:
		for _, val := range r.Validators {
			msgs = append(msgs, &distrtypes.MsgWithdrawDelegatorReward{
				DelegatorAddress: sender,
				ValidatorAddress: val,
			})
		}
	case network.SwapRequest:
		msgs, err = buildSwap(sender, r)
	case network.PoolJoinRequest:
		msgs, err = buildPoolJoin(sender, r)
	case network.PoolExitRequest:
		msgs, err = buildPoolExit(sender, r)
	default:
		return nil, fmt.Errorf("unsupported operation: %T", req)
	}
	if err != nil {
		return nil, err
	}

	return &network.MessageSet{
		Kind:    req.Kind(),
		Request: req,
		Sender:  sender,
		Msgs:    msgs,
	}, nil
}

func (b *MessageBuilder) buildVote(voter string, r network.VoteRequest) ([]sdk.Msg, error) {
	option, err := parseVoteOption(r.Option)
	if err != nil {
		return nil, &network.ParamError{Kind: network.KindVote, Field: "vote option", Message: err.Error()}
	}

	if b.LegacyGov {
		return []sdk.Msg{&govv1beta1.MsgVote{
			ProposalId: r.ProposalID,
			Voter:      voter,
			Option:     govv1beta1.VoteOption(option),
		}}, nil
	}

	return []sdk.Msg{&govv1.MsgVote{
		ProposalId: r.ProposalID,
		Voter:      voter,
		Option:     option,
	}}, nil
}

// assetInfo and asset follow the Astroport/Terraswap pair contract schema.
type assetInfo struct {
	NativeToken *nativeToken `json:"native_token,omitempty"`
	Token       *cw20Token   `json:"token,omitempty"`
}

type nativeToken struct {
	Denom string `json:"denom"`
}

type cw20Token struct {
	ContractAddr string `json:"contract_addr"`
}

type asset struct {
	Info   assetInfo `json:"info"`
	Amount string    `json:"amount"`
}

// denomInfo maps a denom to its asset info. Bech32 contract addresses are cw20 tokens.
func denomInfo(denom string) assetInfo {
	if isContractAddress(denom) {
		return assetInfo{Token: &cw20Token{ContractAddr: denom}}
	}
	return assetInfo{NativeToken: &nativeToken{Denom: denom}}
}

func isContractAddress(denom string) bool {
	prefix := sdk.GetConfig().GetBech32AccountAddrPrefix()
	return prefix != "" && strings.HasPrefix(denom, prefix+"1") && len(denom) > 40
}

type swapMsg struct {
	Swap swapBody `json:"swap"`
}

type swapBody struct {
	OfferAsset   asset     `json:"offer_asset"`
	AskAssetInfo assetInfo `json:"ask_asset_info"`
	MaxSpread    string    `json:"max_spread,omitempty"`
	BeliefPrice  string    `json:"belief_price,omitempty"`
}

func buildSwap(sender string, r network.SwapRequest) ([]sdk.Msg, error) {
	if isContractAddress(r.Offer.Denom) {
		return nil, &network.ParamError{Kind: network.KindSwap, Field: "offer", Message: "must be a native coin"}
	}
	for _, opt := range []struct{ field, value string }{
		{"max spread", r.MaxSpread},
		{"belief price", r.BeliefPrice},
	} {
		if opt.value == "" {
			continue
		}
		if _, err := sdkmath.LegacyNewDecFromStr(opt.value); err != nil {
			return nil, &network.ParamError{Kind: network.KindSwap, Field: opt.field, Message: "must be a decimal"}
		}
	}

	body, err := json.Marshal(swapMsg{Swap: swapBody{
		OfferAsset: asset{
			Info:   denomInfo(r.Offer.Denom),
			Amount: r.Offer.Amount.String(),
		},
		AskAssetInfo: denomInfo(r.AskDenom),
		MaxSpread:    r.MaxSpread,
		BeliefPrice:  r.BeliefPrice,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal swap msg: %w", err)
	}

	return []sdk.Msg{&wasmtypes.MsgExecuteContract{
		Sender:   sender,
		Contract: r.Pair,
		Msg:      wasmtypes.RawContractMessage(body),
		Funds:    sdk.NewCoins(r.Offer),
	}}, nil
}

type provideLiquidityMsg struct {
	ProvideLiquidity provideLiquidityBody `json:"provide_liquidity"`
}

type provideLiquidityBody struct {
	Assets            []asset `json:"assets"`
	SlippageTolerance string  `json:"slippage_tolerance,omitempty"`
}

func buildPoolJoin(sender string, r network.PoolJoinRequest) ([]sdk.Msg, error) {
	if r.SlippageTolerance != "" {
		if _, err := sdkmath.LegacyNewDecFromStr(r.SlippageTolerance); err != nil {
			return nil, &network.ParamError{Kind: network.KindPoolJoin, Field: "slippage tolerance", Message: "must be a decimal"}
		}
	}

	assets := make([]asset, 0, len(r.Assets))
	for _, c := range r.Assets {
		assets = append(assets, asset{Info: denomInfo(c.Denom), Amount: c.Amount.String()})
	}

	body, err := json.Marshal(provideLiquidityMsg{ProvideLiquidity: provideLiquidityBody{
		Assets:            assets,
		SlippageTolerance: r.SlippageTolerance,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal provide_liquidity msg: %w", err)
	}

	return []sdk.Msg{&wasmtypes.MsgExecuteContract{
		Sender:   sender,
		Contract: r.Pool,
		Msg:      wasmtypes.RawContractMessage(body),
		Funds:    r.Assets,
	}}, nil
}

type cw20SendMsg struct {
	Send cw20SendBody `json:"send"`
}

type cw20SendBody struct {
	Contract string `json:"contract"`
	Amount   string `json:"amount"`
	Msg      string `json:"msg"`
}

func buildPoolExit(sender string, r network.PoolExitRequest) ([]sdk.Msg, error) {
	hook := base64.StdEncoding.EncodeToString([]byte(`{"withdraw_liquidity":{}}`))

	body, err := json.Marshal(cw20SendMsg{Send: cw20SendBody{
		Contract: r.Pool,
		Amount:   r.Amount.String(),
		Msg:      hook,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cw20 send msg: %w", err)
	}

	return []sdk.Msg{&wasmtypes.MsgExecuteContract{
		Sender:   sender,
		Contract: r.LPToken,
		Msg:      wasmtypes.RawContractMessage(body),
	}}, nil
}

// parseVoteOption converts a string vote option to the governance VoteOption type.
func parseVoteOption(opt string) (govv1.VoteOption, error) {
	switch strings.ToLower(strings.TrimSpace(opt)) {
	case "yes":
		return govv1.OptionYes, nil
	case "abstain":
		return govv1.OptionAbstain, nil
	case "no":
		return govv1.OptionNo, nil
	case "no_with_veto", "nowithveto", "veto":
		return govv1.OptionNoWithVeto, nil
	default:
		return govv1.OptionEmpty, fmt.Errorf("invalid vote option: %s (valid options: yes, no, abstain, no_with_veto)", opt)
	}
}

// VoteOptions lists the accepted vote options in display order.
func VoteOptions() []string {
	return []string{"yes", "no", "abstain", "no_with_veto"}
}

// ParseGasPrice parses a gas price string like "28.325uluna" into a DecCoin.
func ParseGasPrice(s string) (sdk.DecCoin, error) {
	if s == "" {
		return sdk.DecCoin{}, fmt.Errorf("gas price cannot be empty")
	}

	matches := gasPricePattern.FindStringSubmatch(s)
	if len(matches) != 3 {
		return sdk.DecCoin{}, fmt.Errorf("invalid gas price format: %s (expected format like '28.325uluna')", s)
	}

	amount, err := sdkmath.LegacyNewDecFromStr(matches[1])
	if err != nil {
		return sdk.DecCoin{}, fmt.Errorf("failed to parse gas price amount: %w", err)
	}

	return sdk.NewDecCoinFromDec(matches[2], amount), nil
}

// ParseAmount parses an amount string like "1000uluna" into a Coin.
func ParseAmount(s string) (sdk.Coin, error) {
	if s == "" {
		return sdk.Coin{}, fmt.Errorf("amount cannot be empty")
	}

	matches := amountPattern.FindStringSubmatch(strings.TrimSpace(s))
	if len(matches) != 3 {
		return sdk.Coin{}, fmt.Errorf("invalid amount format: %s (expected format like '1000uluna')", s)
	}

	amount, ok := sdkmath.NewIntFromString(matches[1])
	if !ok {
		return sdk.Coin{}, fmt.Errorf("failed to parse amount: %s", matches[1])
	}

	coin := sdk.Coin{Denom: matches[2], Amount: amount}
	if err := coin.Validate(); err != nil {
		return sdk.Coin{}, fmt.Errorf("invalid amount %s: %w", s, err)
	}
	return coin, nil
}

// ParseAmounts parses a comma separated list of amounts into sorted coins.
func ParseAmounts(s string) (sdk.Coins, error) {
	var coins sdk.Coins
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		coin, err := ParseAmount(part)
		if err != nil {
			return nil, err
		}
		coins = coins.Add(coin)
	}
	if coins.Empty() {
		return nil, fmt.Errorf("no amounts in %q", s)
	}
	return coins, nil
}
