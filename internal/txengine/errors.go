package txengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

// ErrorKind classifies how a transaction failed.
type ErrorKind int

const (
	// KindNone means no error.
	KindNone ErrorKind = iota
	// InvalidParameters: the operation request was incomplete or malformed. Nothing was sent.
	InvalidParameters
	// SimulationFailed: the chain rejected the dry run. Never retried automatically.
	SimulationFailed
	// SequenceConflict: sequence mismatches outlasted the retry bound.
	SequenceConflict
	// GasUnderestimated: out-of-gas persisted up to the maximum gas adjustment.
	GasUnderestimated
	// ChainRejected: the chain returned a non-recoverable result code.
	ChainRejected
	// NetworkError: a chain call failed in transport.
	NetworkError
	// Timeout: a chain call exceeded its deadline. A NetworkError sub-kind.
	Timeout
	// Canceled: the caller canceled the operation, e.g. on SIGINT.
	Canceled
	// SigningFailed: the local key could not sign the transaction. Nothing was sent.
	SigningFailed
)

var kindNames = map[ErrorKind]string{
	KindNone:          "none",
	InvalidParameters: "invalid_parameters",
	SimulationFailed:  "simulation_failed",
	SequenceConflict:  "sequence_conflict",
	GasUnderestimated: "gas_underestimated",
	ChainRejected:     "chain_rejected",
	NetworkError:      "network_error",
	Timeout:           "timeout",
	Canceled:          "canceled",
	SigningFailed:     "signing_failed",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// IsNetwork reports whether k is a transport failure.
func (k ErrorKind) IsNetwork() bool {
	return k == NetworkError || k == Timeout
}

// Error is returned for every terminal failure of a session.
type Error struct {
	Kind   ErrorKind
	Op     string
	Code   uint32
	RawLog string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.RawLog != "" && e.Code != 0:
		return fmt.Sprintf("%s: %s (code %d): %s", e.Op, e.Kind, e.Code, e.RawLog)
	case e.RawLog != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.RawLog)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns the message shown to the user by the CLI.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case InvalidParameters:
		return fmt.Sprintf("Invalid request: %v", e.Err)
	case SimulationFailed:
		return fmt.Sprintf("The transaction simulation failed: %s", e.detail())
	case SequenceConflict:
		return fmt.Sprintf("The account sequence kept changing; gave up: %s", e.detail())
	case GasUnderestimated:
		return fmt.Sprintf("The transaction ran out of gas at the maximum gas adjustment: %s", e.detail())
	case ChainRejected:
		return fmt.Sprintf("The chain rejected the transaction with code %d: %s", e.Code, e.detail())
	case Timeout:
		return fmt.Sprintf("The node did not answer in time during %s", e.Op)
	case NetworkError:
		return fmt.Sprintf("Could not reach the node during %s: %v", e.Op, e.Err)
	case Canceled:
		return fmt.Sprintf("Operation cancelled during %s", e.Op)
	case SigningFailed:
		return fmt.Sprintf("Could not sign the transaction: %v", e.Err)
	}
	return e.Error()
}

// RecoveryHint suggests a next step for the user.
func (e *Error) RecoveryHint() string {
	switch e.Kind {
	case GasUnderestimated:
		return "raise max_gas_adjustment in the [tx] section of config.toml"
	case SequenceConflict:
		return "make sure no other tool is sending transactions from this wallet, then retry"
	case Timeout, NetworkError:
		return "check the grpc_endpoint and rpc_endpoint in the [chain] section of config.toml"
	case SigningFailed:
		return "check chain_id and bech32_prefix in the [chain] section of config.toml"
	}
	return ""
}

// ShouldSilenceUsage hides CLI usage for every failure except bad parameters.
func (e *Error) ShouldSilenceUsage() bool {
	return e.Kind != InvalidParameters
}

func (e *Error) detail() string {
	if e.RawLog != "" {
		return e.RawLog
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

// KindOf returns the ErrorKind carried by err, or KindNone.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}

type timeoutError interface {
	Timeout() bool
}

// classify wraps a collaborator error into an *Error for op.
func classify(op string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var paramErr *network.ParamError
	if errors.As(err, &paramErr) {
		return &Error{Kind: InvalidParameters, Op: op, Err: err}
	}

	var simErr *network.SimulationError
	if errors.As(err, &simErr) {
		return &Error{Kind: SimulationFailed, Op: op, RawLog: simErr.Message, Err: err}
	}

	if errors.Is(err, context.Canceled) {
		return &Error{Kind: Canceled, Op: op, Err: err}
	}

	var te timeoutError
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &te) && te.Timeout()) {
		return &Error{Kind: Timeout, Op: op, Err: err}
	}

	return &Error{Kind: NetworkError, Op: op, Err: err}
}
