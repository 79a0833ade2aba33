package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/songzhibin97/tokenscope/internal/analysis"
)

var validate = validator.New()

// ValidAddress reports whether s is a well-formed EVM contract address.
func ValidAddress(s string) bool {
	return validate.Var(s, "required,eth_addr") == nil
}

type riskRequest struct {
	Address string `uri:"address" binding:"required,eth_addr"`
}

// Analyzer is the core the handler calls into.
type Analyzer interface {
	Analyze(ctx context.Context, address string) *analysis.AnalysisResult
}

type RiskHandler struct {
	analyzer Analyzer
}

func NewRiskHandler(analyzer Analyzer) *RiskHandler {
	return &RiskHandler{
		analyzer: analyzer,
	}
}

func (h *RiskHandler) GetRisk(c *gin.Context) {
	var req riskRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contract address"})
		return
	}

	c.JSON(http.StatusOK, h.analyzer.Analyze(c.Request.Context(), req.Address))
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
