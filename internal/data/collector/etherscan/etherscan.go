package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/songzhibin97/tokenscope/internal/data"
	"github.com/songzhibin97/tokenscope/internal/utils/request"
)

const (
	DefaultBaseURL = "https://api.etherscan.io/v2/api"
	DefaultChainID = 1

	statusOK = "1"
)

// Explorer talks to an Etherscan compatible block explorer. It serves metadata,
// security and holder data for a contract address.
type Explorer struct {
	baseURL    string
	apiKey     string
	chainID    int
	httpClient *resty.Client
}

func NewExplorer(baseURL, apiKey string, chainID int, httpClient *resty.Client) *Explorer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = request.New(request.DefaultTimeout)
	}
	return &Explorer{
		baseURL:    baseURL,
		apiKey:     apiKey,
		chainID:    chainID,
		httpClient: httpClient,
	}
}

func (e *Explorer) Name() string {
	return "etherscan"
}

// envelope is the v1 response schema shared by every non-proxy module.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// rpcEnvelope is the schema of module=proxy responses.
type rpcEnvelope struct {
	JSONRPC string `json:"jsonrpc"`
	Result  string `json:"result"`
	Error   *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
	// set instead of the rpc fields when the explorer rejects the call itself
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e *Explorer) do(ctx context.Context, params map[string]string) ([]byte, error) {
	query := make(map[string]string, len(params)+2)
	for k, v := range params {
		query[k] = v
	}
	if e.apiKey != "" {
		query["apikey"] = e.apiKey
	}
	if e.chainID != 0 {
		query["chainid"] = strconv.Itoa(e.chainID)
	}

	resp, err := e.httpClient.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(e.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	return resp.Body(), nil
}

// get calls a v1 module and decodes its result into out.
func (e *Explorer) get(ctx context.Context, params map[string]string, out interface{}) error {
	body, err := e.do(ctx, params)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: failed to decode envelope: %v", data.ErrUnexpectedResponse, err)
	}

	if env.Status != statusOK {
		return fmt.Errorf("%s/%s failed: %s: %s", params["module"], params["action"], env.Message, resultText(env.Result))
	}

	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s/%s result: %v", data.ErrUnexpectedResponse, params["module"], params["action"], err)
	}

	return nil
}

// ethCall runs a read-only contract call through the explorer proxy and returns the hex result.
func (e *Explorer) ethCall(ctx context.Context, to, callData string) (string, error) {
	body, err := e.do(ctx, map[string]string{
		"module": "proxy",
		"action": "eth_call",
		"to":     to,
		"data":   callData,
		"tag":    "latest",
	})
	if err != nil {
		return "", err
	}

	var env rpcEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("%w: failed to decode eth_call response: %v", data.ErrUnexpectedResponse, err)
	}

	if env.Error != nil {
		return "", fmt.Errorf("eth_call failed: %s", env.Error.Message)
	}

	if env.Status != "" && env.Status != statusOK {
		return "", fmt.Errorf("eth_call rejected: %s", env.Message)
	}

	if !strings.HasPrefix(env.Result, "0x") {
		return "", fmt.Errorf("%w: eth_call result %q", data.ErrUnexpectedResponse, env.Result)
	}

	return env.Result, nil
}

func resultText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
