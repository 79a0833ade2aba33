package risk

import (
	"fmt"
	"strings"
)

// Category 风险类别
type Category string

const (
	CategorySecurity     Category = "Security"
	CategoryMarket       Category = "Market"
	CategoryDistribution Category = "Distribution"
	CategoryMetadata     Category = "Metadata"
	CategoryTokenomics   Category = "Tokenomics"
)

// Severity 严重程度，按顺序递增
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = [...]string{"low", "medium", "high", "critical"}

func (s Severity) String() string {
	if s < SeverityLow || s > SeverityCritical {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityLow || s > SeverityCritical {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	for i, name := range severityNames {
		if strings.EqualFold(string(text), name) {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", text)
}

// Level 风险等级，是分数的单调函数
type Level int

const (
	LevelVeryLow Level = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelVeryHigh
)

var levelNames = [...]string{"Very Low", "Low", "Medium", "High", "Very High"}

func (l Level) String() string {
	if l < LevelVeryLow || l > LevelVeryHigh {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

func (l Level) MarshalText() ([]byte, error) {
	if l < LevelVeryLow || l > LevelVeryHigh {
		return nil, fmt.Errorf("invalid level %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	for i, name := range levelNames {
		if strings.EqualFold(string(text), name) {
			*l = Level(i)
			return nil
		}
	}
	return fmt.Errorf("unknown level %q", text)
}

// RiskFactor 单个风险因素
type RiskFactor struct {
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Impact      int      `json:"impact"`
}

// Assessment 风险评估结果
type Assessment struct {
	Factors        []RiskFactor `json:"risk_factors"`
	Score          int          `json:"overall_risk_score"`
	Level          Level        `json:"risk_level"`
	Recommendation string       `json:"recommendation"`
}
