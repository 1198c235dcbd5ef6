package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftscope/internal/progress"
)

// HTTPClient implements DataSource by calling the LiftScope REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, userID int) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if userID > 0 {
		req.Header.Set("X-User-ID", strconv.Itoa(userID))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func rangeParams(tr progress.TimeRange) url.Values {
	v := url.Values{}
	v.Set("range", string(tr))
	return v
}

func (c *HTTPClient) ExerciseList(ctx context.Context, userID int) ([]progress.ExerciseListItem, error) {
	body, err := c.get(ctx, "/api/v1/exercises", nil, userID)
	if err != nil {
		return nil, err
	}

	var items []progress.ExerciseListItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercise list: %w", err)
	}
	return items, nil
}

func (c *HTTPClient) ExerciseHierarchy(ctx context.Context, userID int) ([]progress.CategoryGroup, error) {
	body, err := c.get(ctx, "/api/v1/exercises/hierarchy", nil, userID)
	if err != nil {
		return nil, err
	}

	var groups []progress.CategoryGroup
	if err := json.Unmarshal(body, &groups); err != nil {
		return nil, fmt.Errorf("httpclient: decode hierarchy: %w", err)
	}
	return groups, nil
}

func (c *HTTPClient) Progress(ctx context.Context, userID int, key progress.Key, tr progress.TimeRange) (*progress.ExerciseProgress, error) {
	path := "/api/v1/exercises/" + url.PathEscape(string(key)) + "/progress"
	body, err := c.get(ctx, path, rangeParams(tr), userID)
	if err != nil {
		return nil, err
	}

	var prog progress.ExerciseProgress
	if err := json.Unmarshal(body, &prog); err != nil {
		return nil, fmt.Errorf("httpclient: decode progress: %w", err)
	}
	return &prog, nil
}

func (c *HTTPClient) Chart(ctx context.Context, userID int, key progress.Key, tr progress.TimeRange) (*progress.ChartData, error) {
	path := "/api/v1/exercises/" + url.PathEscape(string(key)) + "/chart"
	body, err := c.get(ctx, path, rangeParams(tr), userID)
	if err != nil {
		return nil, err
	}

	var chart progress.ChartData
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("httpclient: decode chart: %w", err)
	}
	return &chart, nil
}

func (c *HTTPClient) Distribution(ctx context.Context, userID int, tr progress.TimeRange) (*progress.Distribution, error) {
	body, err := c.get(ctx, "/api/v1/distribution", rangeParams(tr), userID)
	if err != nil {
		return nil, err
	}

	var dist progress.Distribution
	if err := json.Unmarshal(body, &dist); err != nil {
		return nil, fmt.Errorf("httpclient: decode distribution: %w", err)
	}
	return &dist, nil
}

func (c *HTTPClient) HeatMap(ctx context.Context, userID int) (*progress.HeatMap, error) {
	body, err := c.get(ctx, "/api/v1/heatmap", nil, userID)
	if err != nil {
		return nil, err
	}

	var hm progress.HeatMap
	if err := json.Unmarshal(body, &hm); err != nil {
		return nil, fmt.Errorf("httpclient: decode heatmap: %w", err)
	}
	return &hm, nil
}

func (c *HTTPClient) PRTimeline(ctx context.Context, userID int, limit int) ([]progress.PRTimelineItem, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/api/v1/prs", params, userID)
	if err != nil {
		return nil, err
	}

	var items []progress.PRTimelineItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("httpclient: decode pr timeline: %w", err)
	}
	return items, nil
}
