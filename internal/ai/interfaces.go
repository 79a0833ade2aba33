package ai

import (
	"context"

	"github.com/songzhibin97/tokenscope/internal/analysis"
)

// Narrator turns a finished analysis into a plain-language summary. It never changes
// the score, level, factors or recommendation.
type Narrator interface {
	Explain(ctx context.Context, result *analysis.AnalysisResult) (string, error)
}
