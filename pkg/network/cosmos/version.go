// pkg/network/cosmos/version.go
package cosmos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Node features derived from the reported version.
const (
	FeatureAuthz    = "authz"
	FeatureFeegrant = "feegrant"
	FeatureGovV1    = "gov-v1"
	FeatureGroup    = "group"
)

var patchPattern = regexp.MustCompile(`^(\d+)`)

// NodeVersion describes the application a node reports through abci_info.
type NodeVersion struct {
	AppName         string
	Version         string
	LastBlockHeight int64
	Features        []string
}

// HasFeature reports whether feature was detected.
func (v *NodeVersion) HasFeature(feature string) bool {
	if v == nil {
		return false
	}
	for _, f := range v.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// abciInfoResponse represents the ABCI info response from a CometBFT node.
type abciInfoResponse struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Result  struct {
		Response struct {
			Version         string `json:"version"`
			AppVersion      string `json:"app_version"`
			LastBlockHeight string `json:"last_block_height"`
			Data            string `json:"data"`
		} `json:"response"`
	} `json:"result"`
}

// DetectNodeVersion queries the abci_info endpoint of rpcEndpoint.
func DetectNodeVersion(ctx context.Context, rpcEndpoint string) (*NodeVersion, error) {
	if rpcEndpoint == "" {
		return nil, fmt.Errorf("RPC endpoint is required")
	}

	client := &http.Client{Timeout: 10 * time.Second}

	url := strings.TrimRight(rpcEndpoint, "/") + "/abci_info"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, contextError(ctx, "abci_info", err)
		}
		return nil, &ConnectionError{Endpoint: rpcEndpoint, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &RPCError{Operation: "abci_info", Message: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var abciInfo abciInfoResponse
	if err := json.Unmarshal(body, &abciInfo); err != nil {
		return nil, fmt.Errorf("failed to parse ABCI info response: %w", err)
	}

	info := abciInfo.Result.Response
	if info.Version == "" {
		return nil, fmt.Errorf("empty version in ABCI info response")
	}

	height, _ := strconv.ParseInt(info.LastBlockHeight, 10, 64)

	return &NodeVersion{
		AppName:         info.Data,
		Version:         info.Version,
		LastBlockHeight: height,
		Features:        detectFeatures(info.Version),
	}, nil
}

// parseVersion parses a semantic version string into major, minor, patch components.
// Supports versions with or without 'v' prefix and pre-release suffixes.
func parseVersion(version string) (major, minor, patch int, err error) {
	if version == "" {
		return 0, 0, 0, fmt.Errorf("empty version string")
	}

	version = strings.TrimPrefix(version, "v")
	if idx := strings.Index(version, "-"); idx != -1 {
		version = version[:idx]
	}

	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return 0, 0, 0, fmt.Errorf("invalid version format: %s", version)
	}

	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid major version: %w", err)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid minor version: %w", err)
	}

	if len(parts) >= 3 {
		if m := patchPattern.FindStringSubmatch(parts[2]); len(m) > 1 {
			patch, _ = strconv.Atoi(m[1])
		}
	}

	return major, minor, patch, nil
}

// versionAtLeast returns true if version is at least minMajor.minMinor.minPatch.
func versionAtLeast(version string, minMajor, minMinor, minPatch int) bool {
	major, minor, patch, err := parseVersion(version)
	if err != nil {
		return false
	}
	if major != minMajor {
		return major > minMajor
	}
	if minor != minMinor {
		return minor > minMinor
	}
	return patch >= minPatch
}

// detectFeatures maps a version to the modules it is expected to expose.
func detectFeatures(version string) []string {
	var features []string

	if versionAtLeast(version, 0, 43, 0) {
		features = append(features, FeatureAuthz, FeatureFeegrant)
	}
	if versionAtLeast(version, 0, 46, 0) {
		features = append(features, FeatureGovV1)
	}
	if versionAtLeast(version, 0, 47, 0) {
		features = append(features, FeatureGroup)
	}

	return features
}
