package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/songzhibin97/tokenscope/internal/metrics"
	"github.com/songzhibin97/tokenscope/internal/models"
	"github.com/songzhibin97/tokenscope/internal/risk"
)

const RecommendAllowlisted = "VERY LOW RISK: well-known, established token. Standard market risks still apply."

// Collector gathers the data bundle for an address. Implementations never fail.
type Collector interface {
	Collect(ctx context.Context, address string) models.Bundle
	CollectMetadata(ctx context.Context, address string) models.TokenMetadata
}

type Logger interface {
	Error(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
}

// AnalysisResult 单次分析结果
type AnalysisResult struct {
	ID               string                 `json:"id"`
	TokenInfo        models.TokenMetadata   `json:"token_info"`
	MarketData       *models.MarketSnapshot `json:"market_data"`
	Security         models.SecurityProfile `json:"security"`
	Holders          models.HolderProfile   `json:"holders"`
	RiskFactors      []risk.RiskFactor      `json:"risk_factors"`
	OverallRiskScore int                    `json:"overall_risk_score"`
	RiskLevel        risk.Level             `json:"risk_level"`
	Recommendation   string                 `json:"recommendation"`
	Allowlisted      bool                   `json:"allowlisted"`
	AnalyzedAt       time.Time              `json:"analyzed_at"`
}

type Engine struct {
	collector Collector
	allowlist Allowlist
	logger    Logger
	now       func() time.Time
}

func NewEngine(collector Collector, allowlist Allowlist, logger Logger) *Engine {
	return &Engine{
		collector: collector,
		allowlist: allowlist,
		logger:    logger,
		now:       time.Now,
	}
}

// Analyze always returns a result. Missing data pushes the assessment toward higher
// risk rather than failing. The address must already be validated.
func (e *Engine) Analyze(ctx context.Context, address string) *AnalysisResult {
	id := uuid.NewString()

	if e.allowlist.Contains(address) {
		metrics.AllowlistHitsTotal.Inc()
		metadata := e.collector.CollectMetadata(ctx, address)
		result := allowlisted(metadata)
		result.ID = id
		result.AnalyzedAt = e.now()
		e.finish(result)
		return result
	}

	bundle := e.collector.Collect(ctx, address)
	result := Evaluate(bundle)
	result.ID = id
	result.AnalyzedAt = e.now()
	e.finish(result)
	return result
}

func (e *Engine) finish(result *AnalysisResult) {
	metrics.AnalysesTotal.WithLabelValues(result.RiskLevel.String()).Inc()
	e.logger.Info("analysis complete",
		"id", result.ID,
		"address", result.TokenInfo.ContractAddress,
		"score", result.OverallRiskScore,
		"level", result.RiskLevel.String(),
		"factors", len(result.RiskFactors),
		"allowlisted", result.Allowlisted,
	)
}

// Evaluate scores an already collected bundle. It is a pure function of the bundle.
func Evaluate(bundle models.Bundle) *AnalysisResult {
	assessment := risk.Assess(bundle)
	return &AnalysisResult{
		TokenInfo:        bundle.Metadata,
		MarketData:       bundle.Market,
		Security:         bundle.Security,
		Holders:          bundle.Holders,
		RiskFactors:      assessment.Factors,
		OverallRiskScore: assessment.Score,
		RiskLevel:        assessment.Level,
		Recommendation:   assessment.Recommendation,
	}
}

// allowlisted is the fixed verdict for trusted tokens. Security reflects the trust
// override; holder data was not fetched and stays empty.
func allowlisted(metadata models.TokenMetadata) *AnalysisResult {
	return &AnalysisResult{
		TokenInfo:        metadata,
		Security:         models.NewSecurityProfile(true, false, false, false, false, true),
		Holders:          models.HolderProfile{},
		RiskFactors:      []risk.RiskFactor{},
		OverallRiskScore: 0,
		RiskLevel:        risk.LevelVeryLow,
		Recommendation:   RecommendAllowlisted,
		Allowlisted:      true,
	}
}
