package voteledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Stats 投票统计视图，与服务端 /api/votes/:id 的响应一致
// Downvotes 恒为 0，点踩不被支持
type Stats struct {
	Upvotes   int     `json:"upvotes"`
	Downvotes int     `json:"downvotes"`
	Total     int     `json:"total"`
	UserVote  *string `json:"user_vote"`
}

// API 投票后端的最小接口
// ip 由调用方解析好传入，服务端可能以自己看到的地址覆盖
type API interface {
	Stats(ctx context.Context, listingID uint) (Stats, error)
	Vote(ctx context.Context, listingID uint, voteType, ip string, remove bool) (Stats, error)
}

// HTTPAPI 访问 mcpdex 目录服务的 API 实现
type HTTPAPI struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPAPI(baseURL string) *HTTPAPI {
	return &HTTPAPI{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type apiError struct {
	Error string `json:"error"`
}

func decodeStats(resp *http.Response) (Stats, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Stats{}, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return Stats{}, fmt.Errorf("%s", apiErr.Error)
		}
		return Stats{}, fmt.Errorf("vote request failed: status %d", resp.StatusCode)
	}

	var stats Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		return Stats{}, fmt.Errorf("failed to parse stats: %w", err)
	}
	return stats, nil
}

func (a *HTTPAPI) Stats(ctx context.Context, listingID uint) (Stats, error) {
	url := fmt.Sprintf("%s/api/votes/%d", a.BaseURL, listingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Stats{}, err
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return Stats{}, err
	}
	defer resp.Body.Close()

	return decodeStats(resp)
}

type votePayload struct {
	Type   string `json:"type"`
	IP     string `json:"ip,omitempty"`
	Remove bool   `json:"remove,omitempty"`
}

func (a *HTTPAPI) Vote(ctx context.Context, listingID uint, voteType, ip string, remove bool) (Stats, error) {
	payload, err := json.Marshal(votePayload{Type: voteType, IP: ip, Remove: remove})
	if err != nil {
		return Stats{}, err
	}

	url := fmt.Sprintf("%s/api/votes/%d", a.BaseURL, listingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Stats{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return Stats{}, err
	}
	defer resp.Body.Close()

	return decodeStats(resp)
}
