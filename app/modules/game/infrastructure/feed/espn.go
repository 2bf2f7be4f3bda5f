package gamefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	BaseURL = "https://site.api.espn.com/apis/site/v2/sports"
)

// Client handles ESPN API requests
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// New creates a new ESPN API client. An empty baseURL uses the public endpoint.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "Mozilla/5.0 (compatible; PickemBot/1.0)",
	}
}

// FetchScoreboard fetches the scoreboard for sportPath ("football/nfl").
// If date is zero, ESPN returns its current window.
func (c *Client) FetchScoreboard(ctx context.Context, sportPath string, date time.Time) (*Scoreboard, error) {
	url := fmt.Sprintf("%s/%s/scoreboard", c.baseURL, strings.Trim(sportPath, "/"))
	if !date.IsZero() {
		url += "?dates=" + date.Format("20060102")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ESPN API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var sb Scoreboard
	if err := json.NewDecoder(resp.Body).Decode(&sb); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &sb, nil
}
