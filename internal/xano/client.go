package xano

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sectorscope/internal/config"
)

// TokenSource supplies the bearer token per request. Credentials are
// always injected, never read from ambient state.
type TokenSource func() string

// StaticToken wraps a fixed token (the usual env-configured case).
func StaticToken(token string) TokenSource {
	return func() string { return token }
}

// Client is a thin GET client for the Xano workspace API. It owns
// transport concerns only: auth, rate limiting, retries. Payload shape is
// never interpreted here; the normalize package deals with whatever JSON
// comes back.
type Client struct {
	cfg        config.Config
	tokens     TokenSource
	httpClient *http.Client
	limiter    *RateLimiter
}

func NewClient(cfg config.Config, tokens TokenSource) *Client {
	return &Client{
		cfg:        cfg,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: time.Duration(cfg.XanoTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.XanoRateLimitRPS),
	}
}

// Get fetches one endpoint and returns the decoded JSON body as-is.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]string) (any, error) {
	if strings.TrimSpace(c.cfg.XanoAPIBaseURL) == "" {
		return nil, errors.New("missing XANO_API_BASE_URL")
	}

	baseURL := strings.TrimRight(c.cfg.XanoAPIBaseURL, "/") + "/"
	u, err := url.Parse(baseURL + strings.TrimLeft(endpoint, "/"))
	if err != nil {
		return nil, err
	}

	q := u.Query()
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	var lastErr error
	for attempt := 1; attempt <= 5; attempt++ {
		c.limiter.Wait()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		if token := c.tokens(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 5 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("xano status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("xano api error: status=%d body=%s", resp.StatusCode, string(body))
		}

		var out any
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("xano response not json: %w", err)
		}
		return out, nil
	}

	if lastErr == nil {
		lastErr = errors.New("xano request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
