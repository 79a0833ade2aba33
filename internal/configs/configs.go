package configs

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/songzhibin97/tokenscope/internal/data/collector/coingecko"
	"github.com/songzhibin97/tokenscope/internal/data/collector/etherscan"
)

type Config struct {
	// 基础配置
	LogLevel string `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"` // 日志级别
	Timeout  string `json:"timeout" yaml:"timeout" validate:"required"`                        // 单个数据源请求超时

	// 数据源配置
	Explorer ExplorerConfig `json:"explorer" yaml:"explorer"`
	Market   MarketConfig   `json:"market" yaml:"market"`

	// 额外的白名单地址，内置蓝筹之外
	Allowlist []string `json:"allowlist" yaml:"allowlist" validate:"dive,eth_addr"`

	Server ServerConfig `json:"server" yaml:"server"`

	// AI 解读参数
	AIConfig AIConfig `json:"ai_config" yaml:"ai_config"`
}

type ExplorerConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url" validate:"required,url"`
	APIKey  string `json:"api_key" yaml:"api_key"`
	ChainID int    `json:"chain_id" yaml:"chain_id" validate:"gte=0"`
}

type MarketConfig struct {
	BaseURL  string `json:"base_url" yaml:"base_url" validate:"required,url"`
	Platform string `json:"platform" yaml:"platform" validate:"required"` // CoinGecko asset platform id
	APIKey   string `json:"api_key" yaml:"api_key"`
	Pro      bool   `json:"pro" yaml:"pro"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" validate:"required"`
}

type AIConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	APIKey    string `json:"api_key" yaml:"api_key" validate:"required_if=Enabled true"` // AI服务API密钥
	ModelType string `json:"model_type" yaml:"model_type"`                               // AI模型类型
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Timeout:  "10s",
		Explorer: ExplorerConfig{
			BaseURL: etherscan.DefaultBaseURL,
			ChainID: etherscan.DefaultChainID,
		},
		Market: MarketConfig{
			BaseURL:  coingecko.DefaultBaseURL,
			Platform: coingecko.DefaultPlatform,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads the YAML (or JSON) file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	_ = godotenv.Load() // .env is optional
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.RequestTimeout(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RequestTimeout parses Timeout. It must be positive.
func (c *Config) RequestTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout %q must be positive", c.Timeout)
	}
	return d, nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("ETHERSCAN_API_KEY"); ok {
		cfg.Explorer.APIKey = v
	}
	if v, ok := os.LookupEnv("COINGECKO_API_KEY"); ok {
		cfg.Market.APIKey = v
	}
	if v, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
		cfg.AIConfig.APIKey = v
	}
	if v, ok := os.LookupEnv("TOKENSCOPE_ADDR"); ok {
		cfg.Server.Addr = v
	}
	if v, ok := os.LookupEnv("TOKENSCOPE_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
}
