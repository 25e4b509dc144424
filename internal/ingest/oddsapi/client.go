// Package oddsapi fetches betting totals from The Odds API. The provider
// meters requests, so callers are expected to gate every fetch behind the
// poller's rate limiter.
package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fortuna/courtside/internal/logger"
)

const DefaultBaseURL = "https://api.the-odds-api.com"

// Client provides access to The Odds API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an odds client. An empty baseURL selects the
// production endpoint.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchTotals retrieves the totals market for every event of a sport.
func (c *Client) FetchTotals(ctx context.Context, sportKey string) ([]Event, error) {
	endpoint := fmt.Sprintf("%s/v4/sports/%s/odds", c.baseURL, url.PathEscape(sportKey))

	query := url.Values{}
	query.Set("apiKey", c.apiKey)
	query.Set("regions", "us")
	query.Set("markets", MarketTotals)
	query.Set("oddsFormat", "american")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch odds: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("odds API returned status %d", resp.StatusCode)
	}

	// The provider reports remaining request quota on every response.
	if remaining := resp.Header.Get("X-Requests-Remaining"); remaining != "" {
		logger.Debug("[odds-client] requests remaining: %s", remaining)
	}

	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode odds response: %w", err)
	}

	return events, nil
}
