package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/songzhibin97/tokenscope/internal/data"
	"github.com/songzhibin97/tokenscope/internal/models"
)

const unverifiedABI = "Contract source code not verified"

const zeroAddress = "0x0000000000000000000000000000000000000000"

type sourceCode struct {
	SourceCode     string `json:"SourceCode"`
	ABI            string `json:"ABI"`
	ContractName   string `json:"ContractName"`
	Proxy          string `json:"Proxy"`
	Implementation string `json:"Implementation"`
}

type abiEntry struct {
	Type            string `json:"type"`
	Name            string `json:"name"`
	StateMutability string `json:"stateMutability"`
}

// capabilities found in a verified contract
type capabilities struct {
	mint      bool
	pause     bool
	blacklist bool
	owner     bool
}

// FetchSecurity inspects the verified source and ABI. Flags that cannot be determined
// keep their pessimistic value. For a proxy the capabilities come from the
// implementation contract, while owner() is still read through the proxy.
func (e *Explorer) FetchSecurity(ctx context.Context, address string) (*models.SecurityProfile, error) {
	src, err := e.sourceCode(ctx, address)
	if err != nil {
		return nil, err
	}

	if !src.verified() {
		profile := models.DefaultSecurityProfile()
		return &profile, nil
	}

	proxy := src.Proxy == "1" || src.Implementation != ""

	var caps capabilities
	if proxy {
		implCaps, ok := e.implementationCapabilities(ctx, src.Implementation)
		if !ok {
			profile := models.NewSecurityProfile(true, true, true, true, true, false)
			return &profile, nil
		}
		caps = implCaps
	} else {
		caps = src.capabilities()
	}

	renounced := !caps.owner
	if caps.owner {
		renounced = e.ownerRenounced(ctx, address)
	}

	profile := models.NewSecurityProfile(true, proxy, caps.mint, caps.pause, caps.blacklist, renounced)
	return &profile, nil
}

func (e *Explorer) sourceCode(ctx context.Context, address string) (*sourceCode, error) {
	var result []sourceCode
	err := e.get(ctx, map[string]string{
		"module":  "contract",
		"action":  "getsourcecode",
		"address": address,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get source code: %w", err)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("%w: empty source code result", data.ErrUnexpectedResponse)
	}

	return &result[0], nil
}

// implementationCapabilities reads the capabilities of a proxy's logic contract. It
// reports false when the implementation is unknown, unreachable or unverified.
func (e *Explorer) implementationCapabilities(ctx context.Context, implementation string) (capabilities, bool) {
	if implementation == "" {
		return capabilities{}, false
	}
	src, err := e.sourceCode(ctx, implementation)
	if err != nil || !src.verified() {
		return capabilities{}, false
	}
	return src.capabilities(), true
}

func (s *sourceCode) verified() bool {
	return s.SourceCode != "" && s.ABI != unverifiedABI
}

// capabilities prefers the ABI and falls back to scanning the source text.
func (s *sourceCode) capabilities() capabilities {
	caps, err := abiCapabilities(s.ABI)
	if err != nil {
		return sourceCapabilities(s.SourceCode)
	}
	return caps
}

// ownerRenounced reports whether owner() returns the zero address. Any failure is
// reported as not renounced.
func (e *Explorer) ownerRenounced(ctx context.Context, address string) bool {
	result, err := e.ethCall(ctx, address, selectorOwner)
	if err != nil {
		return false
	}
	owner, err := decodeAddress(result)
	if err != nil {
		return false
	}
	return owner == zeroAddress
}

func abiCapabilities(rawABI string) (capabilities, error) {
	var entries []abiEntry
	if err := json.Unmarshal([]byte(rawABI), &entries); err != nil {
		return capabilities{}, fmt.Errorf("%w: invalid abi: %v", data.ErrUnexpectedResponse, err)
	}

	var caps capabilities
	for _, entry := range entries {
		if entry.Type != "function" {
			continue
		}
		name := strings.ToLower(entry.Name)
		mutates := entry.StateMutability != "view" && entry.StateMutability != "pure"

		if mutates && strings.HasPrefix(name, "mint") {
			caps.mint = true
		}
		if mutates && (name == "pause" || name == "setpaused" || name == "pausecontract") {
			caps.pause = true
		}
		if isBlacklistName(name) {
			caps.blacklist = true
		}
		if name == "owner" || name == "getowner" {
			caps.owner = true
		}
	}
	return caps, nil
}

// sourceCapabilities is used when the ABI is unusable but the source is present.
func sourceCapabilities(source string) capabilities {
	src := strings.ToLower(source)
	return capabilities{
		mint:      strings.Contains(src, "function mint("),
		pause:     strings.Contains(src, "function pause("),
		blacklist: containsAny(src, "blacklist", "blocklist", "denylist"),
		owner:     strings.Contains(src, "function owner("),
	}
}

func isBlacklistName(name string) bool {
	return containsAny(name, "blacklist", "blocklist", "denylist") ||
		name == "blockaddress" || name == "addbot" || name == "setbots"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
