package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"tokenfolio/internal/model"
)

const (
	// DefaultBaseURL is the mainnet explorer API endpoint.
	DefaultBaseURL = "https://api.etherscan.io/api"

	// DefaultPageSize is the provider's per-page record cap; a shorter page
	// signals end of data.
	DefaultPageSize = 10000

	DefaultMaxRetries   = 5
	DefaultRetryBackoff = 100 * time.Millisecond
)

// Options tunes the client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL      string
	PageSize     int
	MaxRetries   int
	RetryBackoff time.Duration
	HTTPClient   *http.Client
}

// Client fetches the three paginated account transfer feeds. Rate-limited
// pages are retried with a quadratically growing delay; when the retry
// budget runs out the pages collected so far are returned rather than an
// error, so callers see a truncated feed instead of a failure.
type Client struct {
	baseURL      string
	apiKey       string
	pageSize     int
	maxRetries   int
	retryBackoff time.Duration
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewClient builds a feed client.
func NewClient(apiKey string, opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = DefaultRetryBackoff
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:      opts.BaseURL,
		apiKey:       apiKey,
		pageSize:     opts.PageSize,
		maxRetries:   opts.MaxRetries,
		retryBackoff: opts.RetryBackoff,
		httpClient:   opts.HTTPClient,
		logger:       logger,
	}
}

// NormalTransfers fetches the txlist feed for an address.
func (c *Client) NormalTransfers(ctx context.Context, address string) ([]model.NormalTx, error) {
	var out []model.NormalTx
	err := c.fetchPages(ctx, address, "txlist", func(result json.RawMessage) (int, error) {
		var page []model.NormalTx
		if err := json.Unmarshal(result, &page); err != nil {
			return 0, err
		}
		out = append(out, page...)
		return len(page), nil
	})
	return out, err
}

// InternalTransfers fetches the txlistinternal feed for an address.
func (c *Client) InternalTransfers(ctx context.Context, address string) ([]model.InternalTx, error) {
	var out []model.InternalTx
	err := c.fetchPages(ctx, address, "txlistinternal", func(result json.RawMessage) (int, error) {
		var page []model.InternalTx
		if err := json.Unmarshal(result, &page); err != nil {
			return 0, err
		}
		out = append(out, page...)
		return len(page), nil
	})
	return out, err
}

// TokenTransfers fetches the tokentx feed for an address.
func (c *Client) TokenTransfers(ctx context.Context, address string) ([]model.TokenTx, error) {
	var out []model.TokenTx
	err := c.fetchPages(ctx, address, "tokentx", func(result json.RawMessage) (int, error) {
		var page []model.TokenTx
		if err := json.Unmarshal(result, &page); err != nil {
			return 0, err
		}
		out = append(out, page...)
		return len(page), nil
	})
	return out, err
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// fetchPages walks one feed page by page. collect decodes a page's result
// array and returns how many records it held; a short page ends the feed.
func (c *Client) fetchPages(ctx context.Context, address, action string, collect func(json.RawMessage) (int, error)) error {
	for page := 1; ; page++ {
		result, ok, err := c.fetchPage(ctx, address, action, page)
		if err != nil {
			return fmt.Errorf("%s page %d: %w", action, page, err)
		}
		if !ok {
			// retry budget exhausted, keep what we have
			return nil
		}

		count, err := collect(result)
		if err != nil {
			// the provider signals errors as a string result; treat the
			// feed as ended rather than failing the whole fetch
			c.logger.Warn("unexpected feed payload",
				zap.String("action", action),
				zap.Int("page", page),
				zap.Error(err),
			)
			return nil
		}
		if count < c.pageSize {
			return nil
		}
	}
}

// fetchPage requests a single page, retrying rate-limit responses. The
// second return value is false when the retry budget is exhausted.
func (c *Client) fetchPage(ctx context.Context, address, action string, page int) (json.RawMessage, bool, error) {
	for attempt := 0; ; attempt++ {
		result, rateLimited, err := c.doRequest(ctx, address, action, page)
		if err != nil {
			return nil, false, err
		}
		if !rateLimited {
			return result, true, nil
		}
		if attempt >= c.maxRetries-1 {
			c.logger.Warn("rate limit retries exhausted, returning partial feed",
				zap.String("action", action),
				zap.Int("page", page),
			)
			return nil, false, nil
		}

		delay := c.retryBackoff * time.Duration(attempt*attempt)
		c.logger.Warn("rate limited, retrying",
			zap.String("action", action),
			zap.Int("page", page),
			zap.Duration("delay", delay),
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, false, ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) doRequest(ctx context.Context, address, action string, page int) (json.RawMessage, bool, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", action)
	params.Set("address", address)
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("sort", "asc")
	params.Set("page", strconv.Itoa(page))
	params.Set("offset", strconv.Itoa(c.pageSize))
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return nil, true, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}
	return decoded.Result, false, nil
}
