package risk

import "github.com/songzhibin97/tokenscope/internal/models"

const MaxScore = 100

// inclusive upper bounds of each level
const (
	veryLowMax = 10
	lowMax     = 25
	mediumMax  = 50
	highMax    = 75
)

const highSeverityCascade = 3

const (
	RecommendAvoid    = "AVOID: critical risk factors detected. This token shows signs commonly associated with scams or rug pulls."
	RecommendHighRisk = "HIGH RISK: multiple serious red flags. Do not invest unless you fully understand and accept these risks."
	RecommendCaution  = "CAUTION: significant risk factors present. Research thoroughly and limit exposure."
	RecommendModerate = "MODERATE RISK: some concerns identified. Review the risk factors before investing."
	RecommendLow      = "LOW RISK: minor concerns only. Standard due diligence applies."
	RecommendVeryLow  = "VERY LOW RISK: no significant risk factors detected."
)

// Assess derives factors from the bundle and scores them.
func Assess(b models.Bundle) Assessment {
	factors := DeriveFactors(b)
	score := Score(factors)
	level := LevelFor(score)
	return Assessment{
		Factors:        factors,
		Score:          score,
		Level:          level,
		Recommendation: Recommend(level, factors),
	}
}

// Score is the sum of factor impacts, capped at MaxScore.
func Score(factors []RiskFactor) int {
	total := 0
	for _, f := range factors {
		total += f.Impact
	}
	if total > MaxScore {
		return MaxScore
	}
	if total < 0 {
		return 0
	}
	return total
}

func LevelFor(score int) Level {
	switch {
	case score <= veryLowMax:
		return LevelVeryLow
	case score <= lowMax:
		return LevelLow
	case score <= mediumMax:
		return LevelMedium
	case score <= highMax:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

// Recommend picks the first matching message. The worst single factor can override
// the level: one critical factor always means avoid.
func Recommend(level Level, factors []RiskFactor) string {
	high := 0
	for _, f := range factors {
		if f.Severity == SeverityCritical {
			return RecommendAvoid
		}
		if f.Severity == SeverityHigh {
			high++
		}
	}

	switch {
	case level == LevelVeryHigh || high >= highSeverityCascade:
		return RecommendHighRisk
	case level == LevelHigh:
		return RecommendCaution
	case level == LevelMedium:
		return RecommendModerate
	case level == LevelLow:
		return RecommendLow
	default:
		return RecommendVeryLow
	}
}
