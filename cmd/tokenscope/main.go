package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/songzhibin97/tokenscope/internal/analysis"
	"github.com/songzhibin97/tokenscope/internal/configs"
	"github.com/songzhibin97/tokenscope/internal/data/collector"
	"github.com/songzhibin97/tokenscope/internal/data/collector/coingecko"
	"github.com/songzhibin97/tokenscope/internal/data/collector/etherscan"
	"github.com/songzhibin97/tokenscope/internal/utils/request"
)

var (
	flagconf string

	config *configs.Config
	log    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "tokenscope",
	Short:         "Risk assessment for on-chain token contracts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configs.Load(flagconf)
		if err != nil {
			return err
		}
		config = cfg
		log = newLogger(cfg.LogLevel)
		log.Debug("Loaded config", "log_level", cfg.LogLevel, "platform", cfg.Market.Platform, "allowlist", len(cfg.Allowlist))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagconf, "conf", "", "config path, eg: --conf configs/config.yaml")
	rootCmd.AddCommand(analyzeCmd, serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if log == nil {
			log = newLogger("info")
		}
		log.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: true,
		Level:     lvl,
	}))
}

// newEngine wires the data sources, aggregator and allowlist from config.
func newEngine(cfg *configs.Config, logger *slog.Logger) (*analysis.Engine, error) {
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, err
	}

	explorer := etherscan.NewExplorer(cfg.Explorer.BaseURL, cfg.Explorer.APIKey, cfg.Explorer.ChainID, request.New(timeout))
	market := coingecko.NewCoinGeckoDataSource(cfg.Market.BaseURL, cfg.Market.Platform, cfg.Market.APIKey, cfg.Market.Pro, request.New(timeout))

	aggregator := collector.NewAggregator(explorer, market, explorer, explorer, logger)
	logger.Debug("init aggregator")

	allowlist := analysis.DefaultAllowlist(cfg.Allowlist...)
	logger.Debug("init allowlist", "size", allowlist.Len())

	return analysis.NewEngine(aggregator, allowlist, logger), nil
}
