package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tjenkins47/ai-news-agent/internal/market"
)

// Client fetches stories from the backend proxy.
type Client struct {
	base   string
	client *http.Client
}

func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{base: strings.TrimRight(base, "/"), client: httpClient}
}

// Fetch returns all stories the proxy currently serves, newest first as
// delivered.
func (c *Client) Fetch(ctx context.Context) ([]Story, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/news", nil)
	if err != nil {
		return nil, &market.CodedError{Code: market.CodeValidation, Message: "build news request", Cause: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &market.CodedError{Code: market.CodeUpstreamUnreachable, Message: "news fetch failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &market.CodedError{Code: market.CodeUpstreamUnreachable, Message: "news read failed", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &market.CodedError{
			Code:    market.CodeUpstreamStatus,
			Message: fmt.Sprintf("news fetch returned HTTP %d", resp.StatusCode),
		}
	}

	var stories []Story
	if err := json.Unmarshal(body, &stories); err != nil {
		return nil, &market.CodedError{Code: market.CodeBadPayload, Message: "decode news payload", Cause: err}
	}
	return stories, nil
}
