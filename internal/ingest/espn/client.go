package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/fortuna/courtside/internal/logger"
)

const (
	BaseURL                 = "https://site.api.espn.com/apis/site/v2/sports"
	BasketballNBA           = "basketball/nba"
	BasketballMensCollege   = "basketball/mens-college-basketball"
	BasketballWomensCollege = "basketball/womens-college-basketball"
)

// Client handles ESPN API requests
// Note: Uses curl internally because ESPN blocks Go's HTTP client fingerprint
type Client struct {
	baseURL string
}

// New creates a new ESPN API client with a custom base URL
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL: baseURL,
	}
}

// NewClient creates a new ESPN API client with default settings
func NewClient() *Client {
	return New(BaseURL)
}

// FetchScoreboard fetches games for a specific date
// If date is zero, fetches ESPN's "today" (includes games within ~24 hours)
func (c *Client) FetchScoreboard(ctx context.Context, sportPath string, date time.Time) (*Scoreboard, error) {
	var url string
	if date.IsZero() {
		// No date specified - get ESPN's "today"
		url = fmt.Sprintf("%s/%s/scoreboard", c.baseURL, sportPath)
	} else {
		// Specific date in YYYYMMDD format
		dateStr := date.Format("20060102")
		url = fmt.Sprintf("%s/%s/scoreboard?dates=%s", c.baseURL, sportPath, dateStr)
	}

	var scoreboard Scoreboard
	if err := c.fetch(ctx, url, &scoreboard); err != nil {
		return nil, err
	}
	return &scoreboard, nil
}

// FetchTeamSchedule fetches a team's season schedule with results
func (c *Client) FetchTeamSchedule(ctx context.Context, sportPath string, teamID string) (*Schedule, error) {
	url := fmt.Sprintf("%s/%s/teams/%s/schedule", c.baseURL, sportPath, teamID)

	var schedule Schedule
	if err := c.fetch(ctx, url, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// fetch makes an HTTP GET request using curl and decodes into out
// ESPN blocks Go's HTTP client but curl works reliably
func (c *Client) fetch(ctx context.Context, url string, out interface{}) error {
	logger.Debug("[espn-client] GET %s", url)

	cmd := exec.CommandContext(ctx, "curl", "-s", "-L", "-m", "15", url)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("curl failed: %s (stderr: %s)", err, string(exitErr.Stderr))
		}
		return fmt.Errorf("curl execution failed: %w", err)
	}

	// Check if we got HTML error page (403, 404, etc.)
	if len(output) > 0 && output[0] == '<' {
		return fmt.Errorf("ESPN returned HTML error page: %s", string(output[:min(len(output), 200)]))
	}

	if err := json.Unmarshal(output, out); err != nil {
		return fmt.Errorf("decoding response: %w (body: %s)", err, string(output[:min(len(output), 200)]))
	}

	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
