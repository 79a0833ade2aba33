package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songzhibin97/tokenscope/internal/models"
	"github.com/songzhibin97/tokenscope/internal/risk"
)

const (
	wethUpper = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	scamToken = "0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"
)

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}

type fakeCollector struct {
	bundle        models.Bundle
	collectCalls  int
	metadataCalls int
}

func (f *fakeCollector) Collect(ctx context.Context, address string) models.Bundle {
	f.collectCalls++
	return f.bundle
}

func (f *fakeCollector) CollectMetadata(ctx context.Context, address string) models.TokenMetadata {
	f.metadataCalls++
	return models.TokenMetadata{Name: "Wrapped Ether", Symbol: "WETH", TotalSupply: "1", Decimals: 18, ContractAddress: address}
}

func scamBundle() models.Bundle {
	return models.Bundle{
		Metadata: models.TokenMetadata{Name: "Moon", Symbol: "MOON", TotalSupply: "1000", Decimals: 18, ContractAddress: scamToken},
		Market:   nil,
		Security: models.NewSecurityProfile(false, false, false, false, true, false),
		Holders: models.HolderProfile{
			TotalHolders:           40,
			Top10HoldersPercentage: 85,
			CreatorPercentage:      60,
		},
	}
}

func newTestEngine(c Collector) *Engine {
	e := NewEngine(c, DefaultAllowlist(), nopLogger{})
	e.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return e
}

func TestEngine_Analyze(t *testing.T) {
	c := &fakeCollector{bundle: scamBundle()}
	engine := newTestEngine(c)

	result := engine.Analyze(context.Background(), scamToken)
	require.NotNil(t, result)

	assert.Equal(t, 1, c.collectCalls)
	assert.Zero(t, c.metadataCalls)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), result.AnalyzedAt)
	assert.False(t, result.Allowlisted)

	assert.Nil(t, result.MarketData)
	assert.Equal(t, 100, result.OverallRiskScore)
	assert.Equal(t, risk.LevelVeryHigh, result.RiskLevel)
	assert.Equal(t, risk.RecommendAvoid, result.Recommendation)
	require.Len(t, result.RiskFactors, 5)

	var sum int
	for _, f := range result.RiskFactors {
		sum += f.Impact
	}
	assert.Equal(t, 115, sum)
}

func TestEngine_AllowlistShortCircuit(t *testing.T) {
	c := &fakeCollector{bundle: scamBundle()}
	engine := newTestEngine(c)

	result := engine.Analyze(context.Background(), wethUpper)

	assert.Zero(t, c.collectCalls, "full collection is skipped")
	assert.Equal(t, 1, c.metadataCalls)
	assert.True(t, result.Allowlisted)
	assert.Equal(t, 0, result.OverallRiskScore)
	assert.Equal(t, risk.LevelVeryLow, result.RiskLevel)
	assert.Empty(t, result.RiskFactors)
	assert.NotNil(t, result.RiskFactors)
	assert.Equal(t, RecommendAllowlisted, result.Recommendation)
	assert.Equal(t, "WETH", result.TokenInfo.Symbol)
	assert.Nil(t, result.MarketData)
}

func TestEvaluate_Pure(t *testing.T) {
	b := scamBundle()
	first := Evaluate(b)
	second := Evaluate(b)

	assert.Equal(t, first, second)
	assert.Empty(t, first.ID, "evaluation does not stamp request data")
}

func TestEngine_ExtraAllowlist(t *testing.T) {
	c := &fakeCollector{bundle: scamBundle()}
	engine := NewEngine(c, DefaultAllowlist(scamToken), nopLogger{})

	result := engine.Analyze(context.Background(), scamToken)
	assert.True(t, result.Allowlisted)
	assert.Zero(t, c.collectCalls)
}
