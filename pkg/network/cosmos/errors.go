// pkg/network/cosmos/errors.go
package cosmos

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RPCError is returned when a chain query fails for a reason other than connectivity.
type RPCError struct {
	Operation string
	Message   string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC %s failed: %s", e.Operation, e.Message)
}

// NotFoundError is returned when a resource is not found.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Resource)
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ConnectionError is returned when the node cannot be reached.
type ConnectionError struct {
	Endpoint string
	Message  string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %s", e.Endpoint, e.Message)
}

// TimeoutError is returned when an operation times out.
type TimeoutError struct {
	Operation string
	Err       error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Operation, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Is matches context.DeadlineExceeded, also for gRPC deadline statuses that do not wrap it.
func (e *TimeoutError) Is(target error) bool { return target == context.DeadlineExceeded }

// Timeout reports true, matching the net.Error convention.
func (e *TimeoutError) Timeout() bool { return true }

// CanceledError is returned when the caller canceled an operation, e.g. on SIGINT.
type CanceledError struct {
	Operation string
	Err       error
}

func (e *CanceledError) Error() string {
	return fmt.Sprintf("%s canceled: %v", e.Operation, e.Err)
}

func (e *CanceledError) Unwrap() error { return e.Err }

// Is matches context.Canceled, also for gRPC canceled statuses that do not wrap it.
func (e *CanceledError) Is(target error) bool { return target == context.Canceled }

// contextError types a request failure caused by the end of ctx.
func contextError(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &CanceledError{Operation: op, Err: err}
	}
	return &TimeoutError{Operation: op, Err: err}
}

// classifyError maps a gRPC or context error to one of the typed errors above.
func classifyError(op, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Operation: op, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return &CanceledError{Operation: op, Err: err}
	}

	st, ok := status.FromError(err)
	if !ok {
		return &RPCError{Operation: op, Message: err.Error()}
	}

	switch st.Code() {
	case codes.DeadlineExceeded:
		return &TimeoutError{Operation: op, Err: err}
	case codes.Canceled:
		return &CanceledError{Operation: op, Err: err}
	case codes.Unavailable:
		return &ConnectionError{Endpoint: endpoint, Message: st.Message()}
	case codes.NotFound:
		return &NotFoundError{Resource: fmt.Sprintf("%s: %s", op, st.Message())}
	default:
		return &RPCError{Operation: op, Message: st.Message()}
	}
}

// isTransportError reports whether err came from the connection rather than the chain.
func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	st, ok := status.FromError(err)
	if !ok {
		return true
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.Unauthenticated, codes.ResourceExhausted:
		return true
	}
	return false
}
