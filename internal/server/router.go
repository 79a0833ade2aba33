package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	RiskHandler *RiskHandler
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/v1/")
	api.GET("tokens/:address/risk", cfg.RiskHandler.GetRisk)

	return router
}
