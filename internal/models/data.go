package models

const (
	PlaceholderName     = "Unknown"
	PlaceholderSymbol   = "UNKNOWN"
	PlaceholderSupply   = "0"
	DefaultDecimals     = 18
	maxRugPullRiskScore = 100
)

// TokenMetadata 代币元数据（合约读取）
type TokenMetadata struct {
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	TotalSupply     string `json:"total_supply"` // 最小单位的整数字符串
	Decimals        int    `json:"decimals"`
	ContractAddress string `json:"contract_address"`
}

// PlaceholderMetadata returns the metadata used when no contract read succeeded.
func PlaceholderMetadata(address string) TokenMetadata {
	return TokenMetadata{
		Name:            PlaceholderName,
		Symbol:          PlaceholderSymbol,
		TotalSupply:     PlaceholderSupply,
		Decimals:        DefaultDecimals,
		ContractAddress: address,
	}
}

// MarketSnapshot 市场数据快照
type MarketSnapshot struct {
	Price               float64  `json:"price"`
	MarketCap           float64  `json:"market_cap"`
	Volume24h           float64  `json:"volume_24h"`
	PriceChange24h      float64  `json:"price_change_24h"` // 百分比，可为负
	CirculatingSupply   float64  `json:"circulating_supply"`
	TotalSupply         float64  `json:"total_supply"`
	MaxSupply           *float64 `json:"max_supply"`
	ATH                 float64  `json:"ath"`
	ATHChangePercentage float64  `json:"ath_change_percentage"`
	ATL                 float64  `json:"atl"`
	ATLChangePercentage float64  `json:"atl_change_percentage"`
}

// SecurityProfile 合约安全画像
type SecurityProfile struct {
	IsVerified            bool `json:"is_verified"`
	HasProxyContract      bool `json:"has_proxy_contract"`
	HasMintFunction       bool `json:"has_mint_function"`
	HasPauseFunction      bool `json:"has_pause_function"`
	HasBlacklistFunction  bool `json:"has_blacklist_function"`
	HasOwnershipRenounced bool `json:"has_ownership_renounced"`
	RugPullRisk           int  `json:"rug_pull_risk"`
}

// NewSecurityProfile builds a profile from the detected flags and derives RugPullRisk.
func NewSecurityProfile(verified, proxy, mint, pause, blacklist, renounced bool) SecurityProfile {
	p := SecurityProfile{
		IsVerified:            verified,
		HasProxyContract:      proxy,
		HasMintFunction:       mint,
		HasPauseFunction:      pause,
		HasBlacklistFunction:  blacklist,
		HasOwnershipRenounced: renounced,
	}
	p.RugPullRisk = RugPullRisk(p)
	return p
}

// DefaultSecurityProfile is the profile assumed when nothing could be determined.
func DefaultSecurityProfile() SecurityProfile {
	return NewSecurityProfile(false, true, true, true, true, false)
}

// RugPullRisk derives the 0-100 rug pull estimate from the profile flags.
func RugPullRisk(p SecurityProfile) int {
	risk := 0
	if !p.IsVerified {
		risk += 30
	}
	if p.HasMintFunction {
		risk += 20
	}
	if p.HasBlacklistFunction {
		risk += 20
	}
	if p.HasPauseFunction {
		risk += 10
	}
	if p.HasProxyContract {
		risk += 10
	}
	if !p.HasOwnershipRenounced {
		risk += 10
	}
	if risk > maxRugPullRiskScore {
		risk = maxRugPullRiskScore
	}
	return risk
}

// HolderProfile 持币分布
type HolderProfile struct {
	TotalHolders           int     `json:"total_holders"`
	Top10HoldersPercentage float64 `json:"top10_holders_percentage"`
	CreatorPercentage      float64 `json:"creator_percentage"`
	DistributionScore      float64 `json:"distribution_score"` // 越高越健康
}

// DefaultHolderProfile is the maximally pessimistic profile used when holder data is unavailable.
func DefaultHolderProfile() HolderProfile {
	return HolderProfile{
		TotalHolders:           0,
		Top10HoldersPercentage: 100,
		CreatorPercentage:      100,
		DistributionScore:      0,
	}
}

// Bundle is the aggregated data for one token. Market is nil when the token is unlisted
// or the market source failed.
type Bundle struct {
	Metadata TokenMetadata   `json:"token_info"`
	Market   *MarketSnapshot `json:"market_data"`
	Security SecurityProfile `json:"security"`
	Holders  HolderProfile   `json:"holders"`
}
