// pkg/network/cosmos/client.go
package cosmos

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

const (
	// ProposalPageSize is the page size used when listing proposals.
	ProposalPageSize = 50

	balancePageSize = 100
)

// ClientConfig configures the gRPC connection of a Client.
type ClientConfig struct {
	GRPCEndpoint string
	// TLS forces a TLS connection. Endpoints on port 443 always use TLS.
	TLS       bool
	GasPrices GasPriceSource
	Logger    log.Logger
	// LegacyGov lists proposals through the gov v1beta1 query service.
	LegacyGov bool
}

// Client is the gRPC implementation of network.ChainClient.
type Client struct {
	endpoint string
	cdc      *Codec
	conn     *grpc.ClientConn

	auth  authtypes.QueryClient
	bank  banktypes.QueryClient
	distr distrtypes.QueryClient
	gov     govv1.QueryClient
	govBeta govv1beta1.QueryClient
	wasm    wasmtypes.QueryClient
	txs     txtypes.ServiceClient

	// legacyGov is set once the node is known to serve only gov v1beta1.
	legacyGov atomic.Bool

	gasPrices GasPriceSource
	logger    log.Logger
}

// NewClient connects to the gRPC endpoint in cfg. The connection is lazy.
func NewClient(cfg ClientConfig, cdc *Codec) (*Client, error) {
	if cfg.GRPCEndpoint == "" {
		return nil, fmt.Errorf("gRPC endpoint is required")
	}
	if cdc == nil {
		return nil, fmt.Errorf("codec is required")
	}

	creds := insecure.NewCredentials()
	if cfg.TLS || strings.HasSuffix(cfg.GRPCEndpoint, ":443") {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	target := strings.TrimPrefix(strings.TrimPrefix(cfg.GRPCEndpoint, "https://"), "http://")
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, &ConnectionError{Endpoint: cfg.GRPCEndpoint, Message: err.Error()}
	}

	c := newClient(cfg, cdc, conn)
	c.conn = conn
	return c, nil
}

func newClient(cfg ClientConfig, cdc *Codec, conn grpc.ClientConnInterface) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	c := &Client{
		endpoint:  cfg.GRPCEndpoint,
		cdc:       cdc,
		auth:      authtypes.NewQueryClient(conn),
		bank:      banktypes.NewQueryClient(conn),
		distr:     distrtypes.NewQueryClient(conn),
		gov:       govv1.NewQueryClient(conn),
		govBeta:   govv1beta1.NewQueryClient(conn),
		wasm:      wasmtypes.NewQueryClient(conn),
		txs:       txtypes.NewServiceClient(conn),
		gasPrices: cfg.GasPrices,
		logger:    logger.With("module", "chain-client"),
	}
	c.legacyGov.Store(cfg.LegacyGov)
	return c
}

// Close releases the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// AccountInfo returns the account number and sequence of address.
func (c *Client) AccountInfo(ctx context.Context, address string) (network.AccountState, error) {
	if address == "" {
		return network.AccountState{}, fmt.Errorf("address is required")
	}

	res, err := c.auth.Account(ctx, &authtypes.QueryAccountRequest{Address: address})
	if err != nil {
		return network.AccountState{}, classifyError("account", c.endpoint, err)
	}

	var account sdk.AccountI
	if err := c.cdc.Registry.UnpackAny(res.Account, &account); err != nil {
		return network.AccountState{}, fmt.Errorf("failed to decode account %s: %w", address, err)
	}

	c.logger.Debug("retrieved account", "address", address,
		"account_number", account.GetAccountNumber(), "sequence", account.GetSequence())

	return network.AccountState{
		Address:       address,
		AccountNumber: account.GetAccountNumber(),
		Sequence:      account.GetSequence(),
	}, nil
}

// GasPrices returns the gas price table from the configured source.
func (c *Client) GasPrices(ctx context.Context) (sdk.DecCoins, error) {
	if c.gasPrices == nil {
		return nil, fmt.Errorf("no gas price source configured")
	}
	return c.gasPrices.GasPrices(ctx)
}

// Simulate dry-runs txBytes. Rejections by the chain are returned as *network.SimulationError.
func (c *Client) Simulate(ctx context.Context, txBytes []byte) (uint64, error) {
	res, err := c.txs.Simulate(ctx, &txtypes.SimulateRequest{TxBytes: txBytes})
	if err != nil {
		if isTransportError(err) {
			return 0, classifyError("simulate", c.endpoint, err)
		}
		return 0, &network.SimulationError{Message: statusMessage(err)}
	}
	if res.GasInfo == nil {
		return 0, &network.SimulationError{Message: "simulation returned no gas info"}
	}

	c.logger.Debug("simulated tx", "gas_used", res.GasInfo.GasUsed, "gas_wanted", res.GasInfo.GasWanted)
	return res.GasInfo.GasUsed, nil
}

// Balances returns every balance held by address.
func (c *Client) Balances(ctx context.Context, address string) (sdk.Coins, error) {
	fetch := func(ctx context.Context, pageKey []byte) (*page[sdk.Coin], error) {
		res, err := c.bank.AllBalances(ctx, &banktypes.QueryAllBalancesRequest{
			Address:    address,
			Pagination: &query.PageRequest{Key: pageKey, Limit: balancePageSize},
		})
		if err != nil {
			return nil, err
		}
		return &page[sdk.Coin]{items: res.Balances, nextKey: nextKey(res.Pagination)}, nil
	}

	balances, err := drainPages(ctx, c.logger, "balances", fetch)
	if err != nil {
		return nil, classifyError("balances", c.endpoint, err)
	}
	return sdk.NewCoins(balances...), nil
}

// Rewards returns the pending rewards of delegator per validator.
func (c *Client) Rewards(ctx context.Context, delegator string) ([]network.Reward, error) {
	res, err := c.distr.DelegationTotalRewards(ctx, &distrtypes.QueryDelegationTotalRewardsRequest{
		DelegatorAddress: delegator,
	})
	if err != nil {
		return nil, classifyError("rewards", c.endpoint, err)
	}

	rewards := make([]network.Reward, 0, len(res.Rewards))
	for _, r := range res.Rewards {
		rewards = append(rewards, network.Reward{Validator: r.ValidatorAddress, Amount: r.Reward})
	}
	return rewards, nil
}

// Proposals returns one page of proposals in proposalStatus starting at pageKey.
// Nodes without the gov v1 query service are served through v1beta1.
func (c *Client) Proposals(ctx context.Context, proposalStatus network.ProposalStatus, pageKey []byte) ([]network.Proposal, []byte, error) {
	if c.legacyGov.Load() {
		return c.legacyProposals(ctx, proposalStatus, pageKey)
	}

	res, err := c.gov.Proposals(ctx, &govv1.QueryProposalsRequest{
		ProposalStatus: govv1.ProposalStatus(proposalStatus),
		Pagination:     &query.PageRequest{Key: pageKey, Limit: ProposalPageSize},
	})
	if status.Code(err) == codes.Unimplemented {
		c.logger.Debug("gov v1 query service unavailable, using v1beta1", "endpoint", c.endpoint)
		c.legacyGov.Store(true)
		return c.legacyProposals(ctx, proposalStatus, pageKey)
	}
	if err != nil {
		return nil, nil, classifyError("proposals", c.endpoint, err)
	}

	proposals := make([]network.Proposal, 0, len(res.Proposals))
	for _, p := range res.Proposals {
		proposal := network.Proposal{
			ID:          p.Id,
			Title:       p.Title,
			Description: p.Summary,
		}
		if p.VotingStartTime != nil {
			proposal.VotingStart = *p.VotingStartTime
		}
		if p.VotingEndTime != nil {
			proposal.VotingEnd = *p.VotingEndTime
		}
		proposals = append(proposals, proposal)
	}

	next := nextKey(res.Pagination)
	c.logger.Debug("retrieved proposals page", "count", len(proposals), "has_next", len(next) > 0)
	return proposals, next, nil
}

func (c *Client) legacyProposals(ctx context.Context, proposalStatus network.ProposalStatus, pageKey []byte) ([]network.Proposal, []byte, error) {
	res, err := c.govBeta.Proposals(ctx, &govv1beta1.QueryProposalsRequest{
		ProposalStatus: govv1beta1.ProposalStatus(proposalStatus),
		Pagination:     &query.PageRequest{Key: pageKey, Limit: ProposalPageSize},
	})
	if err != nil {
		return nil, nil, classifyError("proposals", c.endpoint, err)
	}

	proposals := make([]network.Proposal, 0, len(res.Proposals))
	for _, p := range res.Proposals {
		proposal := network.Proposal{
			ID:          p.ProposalId,
			Title:       fmt.Sprintf("Proposal %d", p.ProposalId),
			VotingStart: p.VotingStartTime,
			VotingEnd:   p.VotingEndTime,
		}
		var content govv1beta1.Content
		if p.Content != nil && c.cdc.Registry.UnpackAny(p.Content, &content) == nil {
			proposal.Title = content.GetTitle()
			proposal.Description = content.GetDescription()
		}
		proposals = append(proposals, proposal)
	}

	next := nextKey(res.Pagination)
	c.logger.Debug("retrieved legacy proposals page", "count", len(proposals), "has_next", len(next) > 0)
	return proposals, next, nil
}

type poolResponse struct {
	Assets []struct {
		Info   assetInfo `json:"info"`
		Amount string    `json:"amount"`
	} `json:"assets"`
	TotalShare string `json:"total_share"`
}

// PoolState queries the asset balances of a pair contract.
func (c *Client) PoolState(ctx context.Context, pool string) (*network.PoolState, error) {
	res, err := c.wasm.SmartContractState(ctx, &wasmtypes.QuerySmartContractStateRequest{
		Address:   pool,
		QueryData: wasmtypes.RawContractMessage(`{"pool":{}}`),
	})
	if err != nil {
		return nil, classifyError("pool", c.endpoint, err)
	}
	return parsePoolResponse(pool, res.Data)
}

func parsePoolResponse(pool string, data []byte) (*network.PoolState, error) {
	var resp poolResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse pool response: %w", err)
	}

	state := &network.PoolState{Pool: pool, TotalShare: sdkmath.ZeroInt()}
	if resp.TotalShare != "" {
		share, ok := sdkmath.NewIntFromString(resp.TotalShare)
		if !ok {
			return nil, fmt.Errorf("invalid total share: %s", resp.TotalShare)
		}
		state.TotalShare = share
	}

	for _, a := range resp.Assets {
		amount, ok := sdkmath.NewIntFromString(a.Amount)
		if !ok {
			return nil, fmt.Errorf("invalid pool asset amount: %s", a.Amount)
		}
		var denom string
		switch {
		case a.Info.NativeToken != nil:
			denom = a.Info.NativeToken.Denom
		case a.Info.Token != nil:
			denom = a.Info.Token.ContractAddr
		}
		state.Assets = append(state.Assets, network.PoolAsset{Denom: denom, Amount: amount})
	}
	return state, nil
}

// TxResult looks up a committed transaction by hash.
func (c *Client) TxResult(ctx context.Context, hash string) (*network.BroadcastResult, error) {
	res, err := c.txs.GetTx(ctx, &txtypes.GetTxRequest{Hash: hash})
	if err != nil {
		return nil, classifyError("get tx", c.endpoint, err)
	}
	if res.TxResponse == nil {
		return nil, &NotFoundError{Resource: "tx " + hash}
	}

	r := res.TxResponse
	return &network.BroadcastResult{
		Code:      r.Code,
		Codespace: r.Codespace,
		RawLog:    r.RawLog,
		TxHash:    r.TxHash,
		Height:    r.Height,
		GasWanted: r.GasWanted,
		GasUsed:   r.GasUsed,
		Events:    r.Events,
	}, nil
}

func nextKey(p *query.PageResponse) []byte {
	if p == nil {
		return nil
	}
	return p.NextKey
}

var _ network.ChainClient = (*Client)(nil)
