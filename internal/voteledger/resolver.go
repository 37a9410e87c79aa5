package voteledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Resolver 解析访客的公网 IP，作为服务端投票去重键
type Resolver interface {
	IP(ctx context.Context) (string, error)
}

// HTTPResolver 通过回显接口获取公网 IP
// 默认指向目录服务自己的 /api/ip，带显式超时，
// 避免回显接口挂起时把整个投票流程堵死
type HTTPResolver struct {
	URL    string
	Client *http.Client
}

// DefaultResolverTimeout 回显请求超时
const DefaultResolverTimeout = 5 * time.Second

func NewHTTPResolver(url string) *HTTPResolver {
	return &HTTPResolver{
		URL:    url,
		Client: &http.Client{Timeout: DefaultResolverTimeout},
	}
}

type ipResponse struct {
	IP string `json:"ip"`
}

func (r *HTTPResolver) IP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get IP address: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get IP address: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed ipResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse IP response: %w", err)
	}
	if strings.TrimSpace(parsed.IP) == "" {
		return "", fmt.Errorf("empty IP in response")
	}
	return parsed.IP, nil
}
