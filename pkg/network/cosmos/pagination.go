// pkg/network/cosmos/pagination.go
package cosmos

import (
	"context"

	"cosmossdk.io/log"
	"google.golang.org/grpc/status"

	"github.com/altuslabsxyz/walletops/pkg/network"
)

// maxPages bounds pagination against nodes that keep returning a next key.
const maxPages = 1000

type page[T any] struct {
	items   []T
	nextKey []byte
}

type pageFetcher[T any] func(ctx context.Context, pageKey []byte) (*page[T], error)

// drainPages fetches pages until the next key is empty.
func drainPages[T any](ctx context.Context, logger log.Logger, name string, fetch pageFetcher[T]) ([]T, error) {
	var (
		all     []T
		pageKey []byte
	)
	for i := 0; i < maxPages; i++ {
		p, err := fetch(ctx, pageKey)
		if err != nil {
			return nil, err
		}
		all = append(all, p.items...)
		logger.Debug("fetched page", "data", name, "page", i+1, "items", len(p.items))

		if len(p.nextKey) == 0 {
			return all, nil
		}
		pageKey = p.nextKey
	}
	logger.Debug("stopped paginating at page limit", "data", name, "pages", maxPages)
	return all, nil
}

// AllProposals drains every page of proposals in the given status.
func AllProposals(ctx context.Context, client network.ChainClient, proposalStatus network.ProposalStatus) ([]network.Proposal, error) {
	fetch := func(ctx context.Context, pageKey []byte) (*page[network.Proposal], error) {
		proposals, next, err := client.Proposals(ctx, proposalStatus, pageKey)
		if err != nil {
			return nil, err
		}
		return &page[network.Proposal]{items: proposals, nextKey: next}, nil
	}
	return drainPages(ctx, log.NewNopLogger(), "proposals", fetch)
}

func statusMessage(err error) string {
	if st, ok := status.FromError(err); ok {
		return st.Message()
	}
	return err.Error()
}
