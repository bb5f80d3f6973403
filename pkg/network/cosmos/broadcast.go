// pkg/network/cosmos/broadcast.go
package cosmos

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cosmossdk.io/log"
	"github.com/cometbft/cometbft/crypto/tmhash"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

// BroadcastRequest is the JSON-RPC request for broadcast_tx_sync.
type BroadcastRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      int               `json:"id"`
	Method  string            `json:"method"`
	Params  map[string]string `json:"params"`
}

// BroadcastResponse is the JSON-RPC response for broadcast.
type BroadcastResponse struct {
	Result struct {
		Code      uint32 `json:"code"`
		Data      string `json:"data"`
		Log       string `json:"log"`
		Codespace string `json:"codespace"`
		Hash      string `json:"hash"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    string `json:"data"`
	} `json:"error,omitempty"`
}

const defaultPollInterval = 2 * time.Second

// TxLookup finds committed transactions by hash.
type TxLookup interface {
	TxResult(ctx context.Context, hash string) (*network.BroadcastResult, error)
}

// BroadcasterConfig configures a Broadcaster.
type BroadcasterConfig struct {
	RPCEndpoint string
	// PollInterval and PollAttempts bound the wait for block inclusion.
	// Zero attempts returns the CheckTx result immediately.
	PollInterval time.Duration
	PollAttempts int
	Logger       log.Logger
}

// Broadcaster submits transactions with broadcast_tx_sync and waits for inclusion.
type Broadcaster struct {
	rpcEndpoint  string
	client       *http.Client
	lookup       TxLookup
	pollInterval time.Duration
	pollAttempts int
	logger       log.Logger
}

// NewBroadcaster creates a Broadcaster. lookup may be nil to skip inclusion polling.
func NewBroadcaster(cfg BroadcasterConfig, lookup TxLookup) (*Broadcaster, error) {
	if cfg.RPCEndpoint == "" {
		return nil, fmt.Errorf("RPC endpoint is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	return &Broadcaster{
		rpcEndpoint:  strings.TrimRight(cfg.RPCEndpoint, "/"),
		client:       &http.Client{Timeout: 30 * time.Second},
		lookup:       lookup,
		pollInterval: cfg.PollInterval,
		pollAttempts: cfg.PollAttempts,
		logger:       logger.With("module", "broadcaster"),
	}, nil
}

// Submit broadcasts tx. Transport failures are returned as errors and are never retried here.
func (b *Broadcaster) Submit(ctx context.Context, tx *network.SignedTx) (*network.BroadcastResult, error) {
	if tx == nil {
		return nil, fmt.Errorf("signed transaction is required")
	}
	if len(tx.TxBytes) == 0 {
		return nil, fmt.Errorf("transaction bytes are required")
	}

	checkTx, err := b.broadcastSync(ctx, tx.TxBytes)
	if err != nil {
		return nil, err
	}
	if checkTx.Code != 0 || b.lookup == nil || b.pollAttempts <= 0 {
		return checkTx, nil
	}

	return b.awaitInclusion(ctx, checkTx), nil
}

func (b *Broadcaster) broadcastSync(ctx context.Context, txBytes []byte) (*network.BroadcastResult, error) {
	reqBytes, err := json.Marshal(BroadcastRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "broadcast_tx_sync",
		Params:  map[string]string{"tx": base64.StdEncoding.EncodeToString(txBytes)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal broadcast request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.rpcEndpoint, bytes.NewReader(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, contextError(ctx, "broadcast", err)
		}
		return nil, &ConnectionError{Endpoint: b.rpcEndpoint, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read broadcast response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RPCError{Operation: "broadcast", Message: fmt.Sprintf("unexpected status code %d: %s", resp.StatusCode, string(respBody))}
	}

	var broadcastResp BroadcastResponse
	if err := json.Unmarshal(respBody, &broadcastResp); err != nil {
		return nil, fmt.Errorf("failed to parse broadcast response: %w", err)
	}
	if broadcastResp.Error != nil {
		return nil, &RPCError{
			Operation: "broadcast",
			Message:   fmt.Sprintf("%d: %s %s", broadcastResp.Error.Code, broadcastResp.Error.Message, broadcastResp.Error.Data),
		}
	}

	hash := broadcastResp.Result.Hash
	if hash == "" {
		hash = TxHash(txBytes)
	}

	b.logger.Debug("broadcast tx", "hash", hash, "code", broadcastResp.Result.Code)

	return &network.BroadcastResult{
		Code:      broadcastResp.Result.Code,
		Codespace: broadcastResp.Result.Codespace,
		RawLog:    broadcastResp.Result.Log,
		TxHash:    hash,
	}, nil
}

// awaitInclusion polls for the committed result of checkTx. It falls back to
// checkTx when the tx is not found in time or ctx ends.
func (b *Broadcaster) awaitInclusion(ctx context.Context, checkTx *network.BroadcastResult) *network.BroadcastResult {
	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= b.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return checkTx
		case <-ticker.C:
		}

		result, err := b.lookup.TxResult(ctx, checkTx.TxHash)
		if err != nil {
			if !IsNotFound(err) {
				b.logger.Debug("tx lookup failed", "hash", checkTx.TxHash, "attempt", attempt, "err", err)
			}
			continue
		}
		if result.TxHash == "" {
			result.TxHash = checkTx.TxHash
		}
		return result
	}

	b.logger.Debug("tx not included before polling ended", "hash", checkTx.TxHash, "attempts", b.pollAttempts)
	return checkTx
}

var _ network.Broadcaster = (*Broadcaster)(nil)

// TxHash returns the uppercase hex hash the chain indexes txBytes under.
func TxHash(txBytes []byte) string {
	return fmt.Sprintf("%X", tmhash.Sum(txBytes))
}
