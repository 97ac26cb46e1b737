package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public CoinGecko simple-price endpoint.
const DefaultBaseURL = "https://api.coingecko.com/api/v3/simple/price"

// Client reads spot prices from a CoinGecko-compatible endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a price client. An empty baseURL falls back to the public
// endpoint.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

// EthPriceUSD returns the current ETH/USD spot price.
func (c *Client) EthPriceUSD(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?ids=ethereum&vs_currencies=usd", nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}

	usd, ok := decoded["ethereum"]["usd"]
	if !ok {
		return 0, fmt.Errorf("price missing from response")
	}
	return usd, nil
}
