package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/songzhibin97/tokenscope/internal/analysis"
)

// OpenAINarrator implements the Narrator interface using OpenAI
type OpenAINarrator struct {
	client *openai.Client
	model  string
}

// NewOpenAINarrator creates a new OpenAI narrator instance
func NewOpenAINarrator(apiKey string, model string) *OpenAINarrator {
	return newNarrator(openai.DefaultConfig(apiKey), model)
}

func newNarrator(config openai.ClientConfig, model string) *OpenAINarrator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAINarrator{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Explain implements the Narrator interface
func (n *OpenAINarrator) Explain(ctx context.Context, result *analysis.AnalysisResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("no analysis result provided")
	}

	resp, err := n.createChatCompletion(ctx, buildPrompt(result))
	if err != nil {
		return "", fmt.Errorf("failed to explain analysis: %w", err)
	}

	return strings.TrimSpace(resp), nil
}

func buildPrompt(result *analysis.AnalysisResult) string {
	var factors strings.Builder
	if len(result.RiskFactors) == 0 {
		factors.WriteString("- none\n")
	}
	for _, f := range result.RiskFactors {
		fmt.Fprintf(&factors, "- [%s/%s, +%d] %s\n", f.Category, f.Severity, f.Impact, f.Description)
	}

	market := "not listed on the market data provider"
	if m := result.MarketData; m != nil {
		market = fmt.Sprintf("price $%.8f, market cap $%.2f, 24h volume $%.2f, 24h change %.2f%%",
			m.Price, m.MarketCap, m.Volume24h, m.PriceChange24h)
	}

	return fmt.Sprintf(`Explain the following token risk assessment to a retail investor in at most five sentences.
Do not change the score or the verdict and do not give financial advice beyond the recommendation.

Token: %s (%s)
Contract: %s
Score: %d/100 (%s)
Recommendation: %s
Market: %s
Holders: %d, top 10 hold %.2f%%, creator holds %.2f%%
Risk factors:
%s`,
		result.TokenInfo.Name, result.TokenInfo.Symbol, result.TokenInfo.ContractAddress,
		result.OverallRiskScore, result.RiskLevel, result.Recommendation, market,
		result.Holders.TotalHolders, result.Holders.Top10HoldersPercentage, result.Holders.CreatorPercentage,
		factors.String())
}

// createChatCompletion is a helper function to make OpenAI API calls
func (n *OpenAINarrator) createChatCompletion(ctx context.Context, prompt string) (string, error) {
	resp, err := n.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: n.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are a careful crypto security analyst. You summarise existing risk reports plainly and never invent facts.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3, // 使用较低的temperature以获得更稳定的输出
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}
