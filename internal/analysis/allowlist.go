package analysis

import "strings"

// well-known Ethereum mainnet tokens
var bluechips = []string{
	"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", // WETH
	"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", // USDC
	"0xdac17f958d2ee523a2206206994597c13d831ec7", // USDT
	"0x6b175474e89094c44da98b954eedeac495271d0f", // DAI
	"0x2260fac5e5542a773aa44fbcfedf7c193bc2c599", // WBTC
	"0x514910771af9ca656af840dff83e8264ecf986ca", // LINK
	"0x1f9840a85d5af5bf1d1762f925bdaddc4201f984", // UNI
}

// Allowlist is an immutable set of addresses that skip full analysis.
// The zero value is empty and safe to use.
type Allowlist struct {
	addresses map[string]struct{}
}

func NewAllowlist(addresses ...string) Allowlist {
	set := make(map[string]struct{}, len(addresses))
	for _, addr := range addresses {
		addr = normalize(addr)
		if addr != "" {
			set[addr] = struct{}{}
		}
	}
	return Allowlist{addresses: set}
}

// DefaultAllowlist holds the built-in bluechips plus any extra addresses.
func DefaultAllowlist(extra ...string) Allowlist {
	all := make([]string, 0, len(bluechips)+len(extra))
	all = append(all, bluechips...)
	all = append(all, extra...)
	return NewAllowlist(all...)
}

func (a Allowlist) Contains(address string) bool {
	_, ok := a.addresses[normalize(address)]
	return ok
}

func (a Allowlist) Len() int {
	return len(a.addresses)
}

func normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
