package etherscan

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songzhibin97/tokenscope/internal/data"
)

const testToken = "0x1234567890abcdef1234567890abcdef12345678"

// route answers one explorer request. Returning a nil body writes nothing.
type route func(q url.Values) (status int, body interface{})

func setupTestServer(t *testing.T, handler route) (*httptest.Server, *Explorer) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api", r.URL.Path)
		status, body := handler(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		switch b := body.(type) {
		case nil:
		case string:
			_, err := w.Write([]byte(b))
			require.NoError(t, err)
		default:
			require.NoError(t, json.NewEncoder(w).Encode(b))
		}
	}))

	explorer := NewExplorer(server.URL+"/api", "test-key", DefaultChainID, resty.NewWithClient(server.Client()))
	return server, explorer
}

func ok(result interface{}) (int, interface{}) {
	return http.StatusOK, map[string]interface{}{"status": "1", "message": "OK", "result": result}
}

func notOK(message, result string) (int, interface{}) {
	return http.StatusOK, map[string]interface{}{"status": "0", "message": message, "result": result}
}

func rpc(result string) (int, interface{}) {
	return http.StatusOK, map[string]interface{}{"jsonrpc": "2.0", "id": 1, "result": result}
}

func rpcError(message string) (int, interface{}) {
	return http.StatusOK, map[string]interface{}{
		"jsonrpc": "2.0", "id": 1,
		"error": map[string]interface{}{"code": -32000, "message": message},
	}
}

func word(n *big.Int) string {
	return fmt.Sprintf("%064x", n)
}

func encodeUint(n int64) string {
	return "0x" + word(big.NewInt(n))
}

func encodeBigUint(n *big.Int) string {
	return "0x" + word(n)
}

func encodeString(s string) string {
	padded := make([]byte, (len(s)+31)/32*32)
	copy(padded, s)
	return "0x" + word(big.NewInt(32)) + word(big.NewInt(int64(len(s)))) + hex.EncodeToString(padded)
}

func encodeBytes32(s string) string {
	padded := make([]byte, 32)
	copy(padded, s)
	return "0x" + hex.EncodeToString(padded)
}

func encodeAddress(addr string) string {
	return "0x" + strings.Repeat("0", 24) + strings.TrimPrefix(strings.ToLower(addr), "0x")
}

func TestExplorer_Name(t *testing.T) {
	assert.Equal(t, "etherscan", NewExplorer("", "", 0, nil).Name())
}

func TestExplorer_QueryParams(t *testing.T) {
	server, explorer := setupTestServer(t, func(q url.Values) (int, interface{}) {
		assert.Equal(t, "test-key", q.Get("apikey"))
		assert.Equal(t, "1", q.Get("chainid"))
		assert.Equal(t, "stats", q.Get("module"))
		assert.Equal(t, "tokensupply", q.Get("action"))
		return ok("1000")
	})
	defer server.Close()

	supply, err := explorer.tokenSupply(context.Background(), testToken)
	require.NoError(t, err)
	assert.Equal(t, "1000", supply.String())
}

func TestExplorer_ErrorHandling(t *testing.T) {
	tests := []struct {
		name    string
		handler route
		wantErr error
	}{
		{
			name:    "http 500",
			handler: func(url.Values) (int, interface{}) { return http.StatusInternalServerError, nil },
		},
		{
			name:    "http 429 rate limit",
			handler: func(url.Values) (int, interface{}) { return http.StatusTooManyRequests, nil },
		},
		{
			name:    "invalid json",
			handler: func(url.Values) (int, interface{}) { return http.StatusOK, "invalid json" },
			wantErr: data.ErrUnexpectedResponse,
		},
		{
			name:    "status not ok",
			handler: func(url.Values) (int, interface{}) { return notOK("NOTOK", "Invalid API Key") },
		},
		{
			name:    "result of the wrong shape",
			handler: func(url.Values) (int, interface{}) { return ok(map[string]string{"unexpected": "object"}) },
			wantErr: data.ErrUnexpectedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, explorer := setupTestServer(t, tt.handler)
			defer server.Close()

			_, err := explorer.tokenSupply(context.Background(), testToken)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestExplorer_EthCall(t *testing.T) {
	tests := []struct {
		name    string
		handler route
		want    string
		wantErr bool
	}{
		{
			name:    "result",
			handler: func(url.Values) (int, interface{}) { return rpc(encodeUint(18)) },
			want:    encodeUint(18),
		},
		{
			name:    "rpc error",
			handler: func(url.Values) (int, interface{}) { return rpcError("execution reverted") },
			wantErr: true,
		},
		{
			name:    "rejected by explorer",
			handler: func(url.Values) (int, interface{}) { return notOK("NOTOK", "Invalid API Key") },
			wantErr: true,
		},
		{
			name:    "non hex result",
			handler: func(url.Values) (int, interface{}) { return rpc("Max rate limit reached") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, explorer := setupTestServer(t, func(q url.Values) (int, interface{}) {
				assert.Equal(t, "proxy", q.Get("module"))
				assert.Equal(t, "eth_call", q.Get("action"))
				assert.Equal(t, testToken, q.Get("to"))
				assert.Equal(t, selectorDecimals, q.Get("data"))
				return tt.handler(q)
			})
			defer server.Close()

			got, err := explorer.ethCall(context.Background(), testToken, selectorDecimals)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
