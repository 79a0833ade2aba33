package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/songzhibin97/tokenscope/internal/ai"
	"github.com/songzhibin97/tokenscope/internal/ai/openai"
	"github.com/songzhibin97/tokenscope/internal/analysis"
	"github.com/songzhibin97/tokenscope/internal/server"
)

var flagExplain bool

type analyzeOutput struct {
	*analysis.AnalysisResult
	Explanation string `json:"explanation,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <address>",
	Short: "Analyze a token contract and print the assessment as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address := args[0]
		if !server.ValidAddress(address) {
			return fmt.Errorf("invalid contract address: %s", address)
		}

		engine, err := newEngine(config, log)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		out := analyzeOutput{AnalysisResult: engine.Analyze(ctx, address)}

		if flagExplain || config.AIConfig.Enabled {
			if config.AIConfig.APIKey == "" {
				return fmt.Errorf("explanations need ai_config.api_key or OPENAI_API_KEY")
			}
			var narrator ai.Narrator = openai.NewOpenAINarrator(config.AIConfig.APIKey, config.AIConfig.ModelType)
			explanation, err := narrator.Explain(ctx, out.AnalysisResult)
			if err != nil {
				log.Error("Error explaining analysis", "err", err)
			} else {
				out.Explanation = explanation
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&flagExplain, "explain", false, "add a plain-language explanation generated by the AI narrator")
}
