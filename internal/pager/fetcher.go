package pager

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mcpdex/internal/models"
)

// HTTPFetcher 访问目录服务 /api/mcps 的 Fetcher 实现
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type pageResponse struct {
	MCPs       []models.Listing `json:"mcps"`
	NextCursor *int             `json:"next_cursor"`
}

func (f *HTTPFetcher) FetchPage(ctx context.Context, query Query, cursor, limit int) (Page, error) {
	params := url.Values{}
	if query.Search != "" {
		params.Set("q", query.Search)
	}
	if query.HostingType != "" {
		params.Set("hosting_type", query.HostingType)
	}
	if query.SetupType != "" {
		params.Set("setup_type", query.SetupType)
	}
	if query.Pricing != "" {
		params.Set("pricing", query.Pricing)
	}
	if query.Category != "" {
		params.Set("category", query.Category)
	}
	if query.Promoted {
		params.Set("promoted", "true")
	}
	if query.Sort != "" {
		params.Set("sort", query.Sort)
	}
	if query.Ascending {
		params.Set("direction", "asc")
	}
	params.Set("cursor", strconv.Itoa(cursor))
	params.Set("limit", strconv.Itoa(limit))

	reqURL := f.BaseURL + "/api/mcps?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Page{}, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("listing request failed: status %d", resp.StatusCode)
	}

	var parsed pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Page{}, fmt.Errorf("failed to parse listing page: %w", err)
	}
	return Page{Items: parsed.MCPs, NextCursor: parsed.NextCursor}, nil
}
