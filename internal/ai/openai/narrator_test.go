package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songzhibin97/tokenscope/internal/analysis"
	"github.com/songzhibin97/tokenscope/internal/models"
	"github.com/songzhibin97/tokenscope/internal/risk"
)

func testResult() *analysis.AnalysisResult {
	bundle := models.Bundle{
		Metadata: models.TokenMetadata{Name: "Moon", Symbol: "MOON", TotalSupply: "1000", Decimals: 18, ContractAddress: "0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"},
		Security: models.DefaultSecurityProfile(),
		Holders:  models.HolderProfile{TotalHolders: 40, Top10HoldersPercentage: 85, CreatorPercentage: 60},
	}
	return analysis.Evaluate(bundle)
}

func setupTestServer(t *testing.T, handler func(req openai.ChatCompletionRequest) (int, interface{})) (*httptest.Server, *OpenAINarrator) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		status, body := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return server, newNarrator(config, "")
}

func TestOpenAINarrator_Explain(t *testing.T) {
	server, narrator := setupTestServer(t, func(req openai.ChatCompletionRequest) (int, interface{}) {
		assert.Equal(t, openai.GPT4oMini, req.Model)
		if !assert.Len(t, req.Messages, 2) {
			return http.StatusBadRequest, nil
		}
		assert.Contains(t, req.Messages[1].Content, "Score: 100/100 (Very High)")
		assert.Contains(t, req.Messages[1].Content, "Contract source code is not verified")
		assert.Contains(t, req.Messages[1].Content, "not listed on the market data provider")

		return http.StatusOK, map[string]interface{}{
			"id": "chatcmpl-1",
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": "  Stay away from this token.  "}},
			},
		}
	})
	defer server.Close()

	text, err := narrator.Explain(context.Background(), testResult())
	require.NoError(t, err)
	assert.Equal(t, "Stay away from this token.", text)
}

func TestOpenAINarrator_Errors(t *testing.T) {
	t.Run("nil result", func(t *testing.T) {
		_, err := NewOpenAINarrator("test-key", "").Explain(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("no choices", func(t *testing.T) {
		server, narrator := setupTestServer(t, func(openai.ChatCompletionRequest) (int, interface{}) {
			return http.StatusOK, map[string]interface{}{"id": "chatcmpl-2", "choices": []interface{}{}}
		})
		defer server.Close()

		_, err := narrator.Explain(context.Background(), testResult())
		assert.Error(t, err)
	})

	t.Run("api error", func(t *testing.T) {
		server, narrator := setupTestServer(t, func(openai.ChatCompletionRequest) (int, interface{}) {
			return http.StatusUnauthorized, map[string]interface{}{
				"error": map[string]string{"message": "invalid api key", "type": "invalid_request_error"},
			}
		})
		defer server.Close()

		_, err := narrator.Explain(context.Background(), testResult())
		assert.Error(t, err)
	})
}

func TestBuildPrompt_WithMarket(t *testing.T) {
	result := testResult()
	result.MarketData = &models.MarketSnapshot{Price: 0.5, MarketCap: 1e6, Volume24h: 2e4, PriceChange24h: -3}
	result.RiskFactors = []risk.RiskFactor{}

	prompt := buildPrompt(result)
	assert.Contains(t, prompt, "market cap $1000000.00")
	assert.Contains(t, prompt, "- none")
}
