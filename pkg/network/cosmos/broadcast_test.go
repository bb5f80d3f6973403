// pkg/network/cosmos/broadcast_test.go
package cosmos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cometbft/cometbft/crypto/tmhash"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

func rpcServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req BroadcastRequest
		require.NoError(t, json.Unmarshal(raw, &req))
		require.Equal(t, "2.0", req.JSONRPC)
		require.Equal(t, "broadcast_tx_sync", req.Method)
		require.NotEmpty(t, req.Params["tx"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

type fakeLookup struct {
	calls   atomic.Int32
	missing int32
	result  *network.BroadcastResult
}

func (f *fakeLookup) TxResult(_ context.Context, hash string) (*network.BroadcastResult, error) {
	n := f.calls.Add(1)
	if n <= f.missing {
		return nil, &NotFoundError{Resource: "tx " + hash}
	}
	return f.result, nil
}

func newTestBroadcaster(t *testing.T, endpoint string, lookup TxLookup, attempts int) *Broadcaster {
	t.Helper()
	b, err := NewBroadcaster(BroadcasterConfig{
		RPCEndpoint:  endpoint,
		PollInterval: time.Millisecond,
		PollAttempts: attempts,
	}, lookup)
	require.NoError(t, err)
	return b
}

func TestBroadcaster_Submit(t *testing.T) {
	server := rpcServer(t, `{"jsonrpc":"2.0","id":1,"result":{"code":0,"hash":"ABC123DEF456","log":"[]"}}`)
	b := newTestBroadcaster(t, server.URL, nil, 0)

	result, err := b.Submit(context.Background(), &network.SignedTx{TxBytes: []byte("signed-tx-bytes")})
	require.NoError(t, err)
	require.Equal(t, "ABC123DEF456", result.TxHash)
	require.True(t, result.IsSuccess())
	require.False(t, result.Committed())
}

func TestBroadcaster_CheckTxRejection(t *testing.T) {
	server := rpcServer(t, `{"jsonrpc":"2.0","id":1,"result":{"code":32,"codespace":"sdk","hash":"FF00","log":"account sequence mismatch, expected 8, got 7"}}`)
	lookup := &fakeLookup{}
	b := newTestBroadcaster(t, server.URL, lookup, 5)

	result, err := b.Submit(context.Background(), &network.SignedTx{TxBytes: []byte("tx")})
	require.NoError(t, err)
	require.Equal(t, uint32(32), result.Code)
	require.Equal(t, "sdk", result.Codespace)
	require.Contains(t, result.RawLog, "sequence mismatch")
	require.Zero(t, lookup.calls.Load(), "rejected txs are not polled")
}

func TestBroadcaster_MissingHashUsesTxHash(t *testing.T) {
	server := rpcServer(t, `{"jsonrpc":"2.0","id":1,"result":{"code":0,"log":""}}`)
	b := newTestBroadcaster(t, server.URL, nil, 0)

	txBytes := []byte("tx-without-hash")
	result, err := b.Submit(context.Background(), &network.SignedTx{TxBytes: txBytes})
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("%X", tmhash.Sum(txBytes)), result.TxHash)
}

func TestBroadcaster_AwaitsInclusion(t *testing.T) {
	server := rpcServer(t, `{"jsonrpc":"2.0","id":1,"result":{"code":0,"hash":"AA11"}}`)
	lookup := &fakeLookup{
		missing: 2,
		result: &network.BroadcastResult{
			Code:      11,
			Codespace: "sdk",
			RawLog:    "out of gas in location: WriteFlat; gasWanted: 100, gasUsed: 120",
			TxHash:    "AA11",
			Height:    1200,
		},
	}
	b := newTestBroadcaster(t, server.URL, lookup, 5)

	result, err := b.Submit(context.Background(), &network.SignedTx{TxBytes: []byte("tx")})
	require.NoError(t, err)
	require.Equal(t, uint32(11), result.Code)
	require.Equal(t, int64(1200), result.Height)
	require.Equal(t, int32(3), lookup.calls.Load())
}

func TestBroadcaster_InclusionTimeoutReturnsCheckTx(t *testing.T) {
	server := rpcServer(t, `{"jsonrpc":"2.0","id":1,"result":{"code":0,"hash":"BB22"}}`)
	lookup := &fakeLookup{missing: 100}
	b := newTestBroadcaster(t, server.URL, lookup, 3)

	result, err := b.Submit(context.Background(), &network.SignedTx{TxBytes: []byte("tx")})
	require.NoError(t, err)
	require.Equal(t, "BB22", result.TxHash)
	require.Zero(t, result.Height)
	require.Equal(t, int32(3), lookup.calls.Load())
}

func TestBroadcaster_RPCError(t *testing.T) {
	server := rpcServer(t, `{"jsonrpc":"2.0","id":1,"error":{"code":-32600,"message":"Invalid Request","data":"bad tx"}}`)
	b := newTestBroadcaster(t, server.URL, nil, 0)

	result, err := b.Submit(context.Background(), &network.SignedTx{TxBytes: []byte("tx")})
	require.Error(t, err)
	require.Nil(t, result)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	require.Contains(t, err.Error(), "Invalid Request")
}

func TestBroadcaster_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	b := newTestBroadcaster(t, server.URL, nil, 0)
	_, err := b.Submit(context.Background(), &network.SignedTx{TxBytes: []byte("tx")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status code 500")
}

func TestBroadcaster_NetworkError(t *testing.T) {
	b := newTestBroadcaster(t, "http://127.0.0.1:1", nil, 0)

	_, err := b.Submit(context.Background(), &network.SignedTx{TxBytes: []byte("tx")})
	require.Error(t, err)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestBroadcaster_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	b := newTestBroadcaster(t, server.URL, nil, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := b.Submit(ctx, &network.SignedTx{TxBytes: []byte("tx")})
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBroadcaster_CanceledIsNotTimeout(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	b := newTestBroadcaster(t, server.URL, nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Submit(ctx, &network.SignedTx{TxBytes: []byte("tx")})
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, context.DeadlineExceeded)

	var canceled *CanceledError
	require.ErrorAs(t, err, &canceled)
	require.Equal(t, int32(0), calls.Load())
}

func TestTimeoutError_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("dial: %w", context.DeadlineExceeded)
	err := &TimeoutError{Operation: "broadcast", Err: cause}
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, cause, errors.Unwrap(err))
}

func TestBroadcaster_InvalidInput(t *testing.T) {
	b := newTestBroadcaster(t, "http://localhost:26657", nil, 0)

	_, err := b.Submit(context.Background(), nil)
	require.ErrorContains(t, err, "signed transaction is required")

	_, err = b.Submit(context.Background(), &network.SignedTx{})
	require.ErrorContains(t, err, "transaction bytes are required")
}

func TestNewBroadcaster_RequiresEndpoint(t *testing.T) {
	_, err := NewBroadcaster(BroadcasterConfig{}, nil)
	require.Error(t, err)
}
