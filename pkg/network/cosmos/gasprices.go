// pkg/network/cosmos/gasprices.go
package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GasPriceSource returns the chain's per-denom gas prices.
type GasPriceSource interface {
	GasPrices(ctx context.Context) (sdk.DecCoins, error)
}

// StaticGasPrices is a fixed gas price table.
type StaticGasPrices sdk.DecCoins

// ParseStaticGasPrices parses "28.325uluna,0.75uusd" style price lists.
func ParseStaticGasPrices(s string) (StaticGasPrices, error) {
	prices, err := sdk.ParseDecCoins(s)
	if err != nil {
		return nil, fmt.Errorf("invalid gas prices %q: %w", s, err)
	}
	return StaticGasPrices(prices), nil
}

func (s StaticGasPrices) GasPrices(context.Context) (sdk.DecCoins, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("no static gas prices configured")
	}
	return sdk.DecCoins(s), nil
}

// RESTGasPrices fetches a {"denom": "price"} table over HTTP.
type RESTGasPrices struct {
	url    string
	client *http.Client
}

// NewRESTGasPrices creates a RESTGasPrices reading url.
func NewRESTGasPrices(url string) *RESTGasPrices {
	return &RESTGasPrices{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *RESTGasPrices) GasPrices(ctx context.Context) (sdk.DecCoins, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, contextError(ctx, "gas prices", err)
		}
		return nil, &ConnectionError{Endpoint: r.url, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RPCError{Operation: "gas prices", Message: fmt.Sprintf("status %d: %s", resp.StatusCode, string(body))}
	}

	var table map[string]string
	if err := json.Unmarshal(body, &table); err != nil {
		return nil, fmt.Errorf("failed to parse gas prices: %w", err)
	}

	denoms := make([]string, 0, len(table))
	for denom := range table {
		denoms = append(denoms, denom)
	}
	sort.Strings(denoms)

	prices := make(sdk.DecCoins, 0, len(table))
	for _, denom := range denoms {
		amount, err := sdkmath.LegacyNewDecFromStr(table[denom])
		if err != nil {
			return nil, fmt.Errorf("invalid gas price for %s: %w", denom, err)
		}
		if err := sdk.ValidateDenom(denom); err != nil || amount.IsNegative() {
			return nil, fmt.Errorf("invalid gas price entry %s=%s", denom, table[denom])
		}
		prices = append(prices, sdk.NewDecCoinFromDec(denom, amount))
	}
	return prices.Sort(), nil
}

// FallbackGasPrices tries Primary and falls back to Fallback on any error.
type FallbackGasPrices struct {
	Primary  GasPriceSource
	Fallback GasPriceSource
	Logger   log.Logger
}

func (f FallbackGasPrices) GasPrices(ctx context.Context) (sdk.DecCoins, error) {
	if f.Primary != nil {
		prices, err := f.Primary.GasPrices(ctx)
		if err == nil {
			return prices, nil
		}
		if f.Fallback == nil {
			return nil, err
		}
		if f.Logger != nil {
			f.Logger.Debug("gas price source failed, using fallback", "err", err)
		}
	}
	if f.Fallback == nil {
		return nil, fmt.Errorf("no gas price source configured")
	}
	return f.Fallback.GasPrices(ctx)
}
