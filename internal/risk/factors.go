package risk

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/songzhibin97/tokenscope/internal/models"
)

// Thresholds for the market, distribution and tokenomics rules
const (
	MinVolume24h         = 10_000
	MinMarketCap         = 100_000
	MaxPriceDrop24h      = -50
	MaxTop10Percentage   = 80
	MaxCreatorPercentage = 50
	MinHolders           = 100
)

var maxNormalizedSupply = decimal.New(1, 12)

// DeriveFactors evaluates every rule against the bundle. Output is grouped by category
// in the order Security, Market, Distribution, Metadata, Tokenomics.
func DeriveFactors(b models.Bundle) []RiskFactor {
	factors := make([]RiskFactor, 0)
	factors = append(factors, securityFactors(b.Security)...)
	factors = append(factors, marketFactors(b.Market)...)
	factors = append(factors, distributionFactors(b.Holders)...)
	factors = append(factors, metadataFactors(b.Metadata)...)
	factors = append(factors, tokenomicsFactors(b.Metadata)...)
	return factors
}

func securityFactors(s models.SecurityProfile) []RiskFactor {
	var out []RiskFactor
	if !s.IsVerified {
		out = append(out, RiskFactor{CategorySecurity, SeverityHigh,
			"Contract source code is not verified", 25})
	}
	if s.HasMintFunction {
		out = append(out, RiskFactor{CategorySecurity, SeverityMedium,
			"Contract has a mint function, supply can be inflated", 15})
	}
	if s.HasBlacklistFunction {
		out = append(out, RiskFactor{CategorySecurity, SeverityHigh,
			"Contract can blacklist addresses from trading", 25})
	}
	if s.HasPauseFunction {
		out = append(out, RiskFactor{CategorySecurity, SeverityMedium,
			"Contract can pause transfers", 15})
	}
	if s.HasProxyContract {
		out = append(out, RiskFactor{CategorySecurity, SeverityMedium,
			"Contract is upgradeable through a proxy, its logic can change", 20})
	}
	return out
}

// marketFactors fire only for listed tokens.
func marketFactors(m *models.MarketSnapshot) []RiskFactor {
	if m == nil {
		return nil
	}
	var out []RiskFactor
	if m.Volume24h < MinVolume24h {
		out = append(out, RiskFactor{CategoryMarket, SeverityMedium,
			fmt.Sprintf("Low 24h trading volume ($%.2f)", m.Volume24h), 15})
	}
	if m.MarketCap < MinMarketCap {
		out = append(out, RiskFactor{CategoryMarket, SeverityMedium,
			fmt.Sprintf("Low market cap ($%.2f)", m.MarketCap), 10})
	}
	if m.PriceChange24h < MaxPriceDrop24h {
		out = append(out, RiskFactor{CategoryMarket, SeverityHigh,
			fmt.Sprintf("Price dropped %.2f%% in 24h", m.PriceChange24h), 20})
	}
	return out
}

// distributionFactors treat zero holders as no signal.
func distributionFactors(h models.HolderProfile) []RiskFactor {
	if h.TotalHolders <= 0 {
		return nil
	}
	var out []RiskFactor
	if h.Top10HoldersPercentage > MaxTop10Percentage {
		out = append(out, RiskFactor{CategoryDistribution, SeverityHigh,
			fmt.Sprintf("Top 10 holders own %.2f%% of supply", h.Top10HoldersPercentage), 25})
	}
	if h.CreatorPercentage > MaxCreatorPercentage {
		out = append(out, RiskFactor{CategoryDistribution, SeverityCritical,
			fmt.Sprintf("Creator holds %.2f%% of supply", h.CreatorPercentage), 30})
	}
	if h.TotalHolders < MinHolders {
		out = append(out, RiskFactor{CategoryDistribution, SeverityMedium,
			fmt.Sprintf("Only %d holders", h.TotalHolders), 10})
	}
	return out
}

func metadataFactors(m models.TokenMetadata) []RiskFactor {
	if isPlaceholder(m.Name, models.PlaceholderName) || isPlaceholder(m.Symbol, models.PlaceholderSymbol) {
		return []RiskFactor{{CategoryMetadata, SeverityMedium,
			"Token name or symbol is missing", 10}}
	}
	return nil
}

func tokenomicsFactors(m models.TokenMetadata) []RiskFactor {
	if NormalizedSupply(m).GreaterThan(maxNormalizedSupply) {
		return []RiskFactor{{CategoryTokenomics, SeverityMedium,
			"Extremely large token supply (over one trillion)", 15}}
	}
	return nil
}

// NormalizedSupply is totalSupply / 10^decimals. Unparsable supply counts as zero.
func NormalizedSupply(m models.TokenMetadata) decimal.Decimal {
	supply, err := decimal.NewFromString(strings.TrimSpace(m.TotalSupply))
	if err != nil {
		return decimal.Zero
	}
	decimals := m.Decimals
	if decimals < 0 {
		decimals = 0
	}
	return supply.Shift(-int32(decimals))
}

func isPlaceholder(value, placeholder string) bool {
	v := strings.TrimSpace(value)
	return v == "" || v == placeholder
}
