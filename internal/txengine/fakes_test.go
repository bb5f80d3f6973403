package txengine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

const testSender = "terra1sender"

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

// fakeChain implements network.ChainClient with fixed answers and call counters.
type fakeChain struct {
	mu sync.Mutex

	account  network.AccountState
	gasUsed  uint64
	prices   sdk.DecCoins
	simErr   error
	accErr   error
	priceErr error

	accountCalls  int
	simulateCalls int
	simulated     [][]byte
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		account: network.AccountState{Address: testSender, AccountNumber: 7, Sequence: 10},
		gasUsed: 100000,
		prices:  sdk.NewDecCoins(sdk.NewDecCoinFromDec("uluna", sdkmath.LegacyNewDec(25))),
	}
}

func (c *fakeChain) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accountCalls + c.simulateCalls
}

func (c *fakeChain) AccountInfo(_ context.Context, address string) (network.AccountState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accountCalls++
	if c.accErr != nil {
		return network.AccountState{}, c.accErr
	}
	acc := c.account
	acc.Address = address
	return acc, nil
}

func (c *fakeChain) GasPrices(context.Context) (sdk.DecCoins, error) {
	if c.priceErr != nil {
		return nil, c.priceErr
	}
	return c.prices, nil
}

func (c *fakeChain) Simulate(_ context.Context, txBytes []byte) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.simulateCalls++
	c.simulated = append(c.simulated, txBytes)
	if c.simErr != nil {
		return 0, c.simErr
	}
	return c.gasUsed, nil
}

func (c *fakeChain) Balances(context.Context, string) (sdk.Coins, error) {
	return sdk.NewCoins(sdk.NewInt64Coin("uluna", 1_000_000_000)), nil
}

func (c *fakeChain) Rewards(context.Context, string) ([]network.Reward, error) {
	return nil, nil
}

func (c *fakeChain) Proposals(context.Context, network.ProposalStatus, []byte) ([]network.Proposal, []byte, error) {
	return nil, nil, nil
}

func (c *fakeChain) PoolState(context.Context, string) (*network.PoolState, error) {
	return nil, errors.New("no pools")
}

// fakeBuilder validates the request and returns an empty message list.
type fakeBuilder struct {
	builds int
}

func (b *fakeBuilder) Build(req network.OperationRequest, sender string) (*network.MessageSet, error) {
	b.builds++
	if req == nil {
		return nil, errors.New("operation request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &network.MessageSet{Kind: req.Kind(), Request: req, Sender: sender}, nil
}

type signCall struct {
	msgs     *network.MessageSet
	sequence uint64
	fee      network.FeeQuote
}

// fakeSigner records every Sign call.
type fakeSigner struct {
	address string
	signs   []signCall
	signErr error
}

func (s *fakeSigner) Address() string { return s.address }

func (s *fakeSigner) SimulationBytes(_ *network.MessageSet, account network.AccountState) ([]byte, error) {
	return []byte(fmt.Sprintf("sim/%d/%d", account.AccountNumber, account.Sequence)), nil
}

func (s *fakeSigner) Sign(_ context.Context, msgs *network.MessageSet, account network.AccountState, fee network.FeeQuote) (*network.SignedTx, error) {
	if s.signErr != nil {
		return nil, s.signErr
	}
	s.signs = append(s.signs, signCall{msgs: msgs, sequence: account.Sequence, fee: fee})
	return &network.SignedTx{
		TxBytes:  []byte(fmt.Sprintf("tx/%d/%s", account.Sequence, fee.Amount)),
		Sequence: account.Sequence,
	}, nil
}

// scriptedBroadcaster returns its results in order and repeats the last one.
type scriptedBroadcaster struct {
	results []*network.BroadcastResult
	err      error
	sent     []*network.SignedTx
	onSubmit func()
}

func (b *scriptedBroadcaster) Submit(_ context.Context, tx *network.SignedTx) (*network.BroadcastResult, error) {
	b.sent = append(b.sent, tx)
	if b.onSubmit != nil {
		b.onSubmit()
	}
	if b.err != nil {
		return nil, b.err
	}
	i := len(b.sent) - 1
	if i >= len(b.results) {
		i = len(b.results) - 1
	}
	return b.results[i], nil
}

type fakeApprover struct {
	answer   bool
	err      error
	previews []*network.Preview
}

func (a *fakeApprover) Approve(_ context.Context, p *network.Preview) (bool, error) {
	a.previews = append(a.previews, p)
	return a.answer, a.err
}

type harness struct {
	chain       *fakeChain
	builder     *fakeBuilder
	signer      *fakeSigner
	broadcaster *scriptedBroadcaster
	approver    *fakeApprover
	runner      *Runner
}

func testPolicy() RetryPolicy {
	return RetryPolicy{
		GasAdjustment:          2.0,
		GasAdjustmentIncrement: 0.5,
		MaxGasAdjustment:       3.0,
		MaxSequenceRetries:     25,
	}
}

func newHarness(policy RetryPolicy, results ...*network.BroadcastResult) (*harness, error) {
	h := &harness{
		chain:       newFakeChain(),
		builder:     &fakeBuilder{},
		signer:      &fakeSigner{address: testSender},
		broadcaster: &scriptedBroadcaster{results: results},
		approver:    &fakeApprover{answer: true},
	}
	runner, err := NewRunner(Dependencies{
		Client:      h.chain,
		Builder:     h.builder,
		Broadcaster: h.broadcaster,
		Approver:    h.approver,
		Logger:      nopLogger{},
	}, Config{FeeDenom: "uluna", Policy: policy})
	if err != nil {
		return nil, err
	}
	h.runner = runner
	return h, nil
}

func sequenceMismatch() *network.BroadcastResult {
	return &network.BroadcastResult{
		Code:      32,
		Codespace: "sdk",
		RawLog:    "account sequence mismatch, expected 11, got 10: incorrect account sequence",
	}
}

func outOfGas(height int64) *network.BroadcastResult {
	return &network.BroadcastResult{
		Code:      11,
		Codespace: "sdk",
		RawLog:    "out of gas in location: WriteFlat; gasWanted: 200000, gasUsed: 200512: out of gas",
		TxHash:    "OOG",
		Height:    height,
	}
}

func success(hash string) *network.BroadcastResult {
	return &network.BroadcastResult{Code: 0, TxHash: hash, Height: 100}
}
