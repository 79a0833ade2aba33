package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/songzhibin97/tokenscope/internal/data"
	"github.com/songzhibin97/tokenscope/internal/models"
	"github.com/songzhibin97/tokenscope/internal/utils/request"
)

const (
	DefaultBaseURL  = "https://api.coingecko.com/api/v3"
	DefaultPlatform = "ethereum"
	quoteCurrency   = "usd"

	demoKeyHeader = "x-cg-demo-api-key"
	proKeyHeader  = "x-cg-pro-api-key"
)

type CoinGeckoDataSource struct {
	baseURL    string
	platform   string
	apiKey     string
	pro        bool
	httpClient *resty.Client
}

func NewCoinGeckoDataSource(baseURL, platform, apiKey string, pro bool, httpClient *resty.Client) *CoinGeckoDataSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if platform == "" {
		platform = DefaultPlatform
	}
	if httpClient == nil {
		httpClient = request.New(request.DefaultTimeout)
	}
	return &CoinGeckoDataSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		platform:   platform,
		apiKey:     apiKey,
		pro:        pro,
		httpClient: httpClient,
	}
}

func (c *CoinGeckoDataSource) Name() string {
	return "coingecko"
}

// coinResponse is the /coins/{platform}/contract/{address} schema.
type coinResponse struct {
	ID         string `json:"id"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	MarketData *struct {
		CurrentPrice             map[string]float64 `json:"current_price"`
		MarketCap                map[string]float64 `json:"market_cap"`
		TotalVolume              map[string]float64 `json:"total_volume"`
		PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
		CirculatingSupply        float64            `json:"circulating_supply"`
		TotalSupply              *float64           `json:"total_supply"`
		MaxSupply                *float64           `json:"max_supply"`
		ATH                      map[string]float64 `json:"ath"`
		ATHChangePercentage      map[string]float64 `json:"ath_change_percentage"`
		ATL                      map[string]float64 `json:"atl"`
		ATLChangePercentage      map[string]float64 `json:"atl_change_percentage"`
	} `json:"market_data"`
}

// FetchMarket returns nil, nil when CoinGecko has no listing for the contract.
func (c *CoinGeckoDataSource) FetchMarket(ctx context.Context, address string) (*models.MarketSnapshot, error) {
	url := fmt.Sprintf("%s/coins/%s/contract/%s", c.baseURL, c.platform, strings.ToLower(address))

	req := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"localization":   "false",
			"tickers":        "false",
			"community_data": "false",
			"developer_data": "false",
		})
	if c.apiKey != "" {
		header := demoKeyHeader
		if c.pro {
			header = proKeyHeader
		}
		req.SetHeader(header, c.apiKey)
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var coin coinResponse
	if err := json.Unmarshal(resp.Body(), &coin); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", data.ErrUnexpectedResponse, err)
	}

	if coin.MarketData == nil {
		return nil, fmt.Errorf("%w: missing market_data", data.ErrUnexpectedResponse)
	}

	md := coin.MarketData
	snapshot := &models.MarketSnapshot{
		Price:               nonNegative(md.CurrentPrice[quoteCurrency]),
		MarketCap:           nonNegative(md.MarketCap[quoteCurrency]),
		Volume24h:           nonNegative(md.TotalVolume[quoteCurrency]),
		PriceChange24h:      md.PriceChangePercentage24h,
		CirculatingSupply:   nonNegative(md.CirculatingSupply),
		MaxSupply:           md.MaxSupply,
		ATH:                 nonNegative(md.ATH[quoteCurrency]),
		ATHChangePercentage: md.ATHChangePercentage[quoteCurrency],
		ATL:                 nonNegative(md.ATL[quoteCurrency]),
		ATLChangePercentage: md.ATLChangePercentage[quoteCurrency],
	}
	if md.TotalSupply != nil {
		snapshot.TotalSupply = nonNegative(*md.TotalSupply)
	}

	return snapshot, nil
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
