package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SeriesClient fetches aggregated price series from the backend proxy.
type SeriesClient struct {
	base   string
	client *http.Client
}

// NewSeriesClient builds a client for the proxy at base. A nil httpClient
// gets a default with a request timeout.
func NewSeriesClient(base string, httpClient *http.Client) *SeriesClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &SeriesClient{base: strings.TrimRight(base, "/"), client: httpClient}
}

// FetchSeries issues one GET for the selection's series with caching
// disabled. Both payload conventions the proxy has used are accepted: an
// object carrying a points (or candles) list, and a bare top-level array.
func (c *SeriesClient) FetchSeries(ctx context.Context, sel Selection) ([]RawPoint, error) {
	u := fmt.Sprintf("%s/api/ohlc/%s?range=%s&interval=%s",
		c.base,
		url.PathEscape(sel.Symbol),
		url.QueryEscape(sel.Range),
		url.QueryEscape(sel.Interval),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, newError(CodeValidation, "build series request", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newError(CodeUpstreamUnreachable, "series fetch failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(CodeUpstreamUnreachable, "series read failed", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newError(CodeUpstreamStatus, fmt.Sprintf("series fetch returned HTTP %d", resp.StatusCode), nil)
	}
	return decodeSeries(body)
}

func decodeSeries(body []byte) ([]RawPoint, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pts []RawPoint
		if err := json.Unmarshal(trimmed, &pts); err != nil {
			return nil, newError(CodeBadPayload, "decode series array", err)
		}
		return pts, nil
	}
	var env struct {
		Points  []RawPoint `json:"points"`
		Candles []RawPoint `json:"candles"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, newError(CodeBadPayload, "decode series payload", err)
	}
	if env.Points != nil {
		return env.Points, nil
	}
	return env.Candles, nil
}
