// Package client 提供访问本服务和上游服务的 HTTP 客户端
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// PopularEntry 热门排行条目
type PopularEntry struct {
	ResourceID    string `json:"resourceId"`
	Title         string `json:"title,omitempty"`
	Category      string `json:"category,omitempty"`
	ViewCount     int64  `json:"viewCount"`
	ShareCount    int64  `json:"shareCount"`
	DownloadCount int64  `json:"downloadCount"`
}

// popularRes 服务端统一响应信封
type popularRes struct {
	Code    int    `json:"code"`
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Data    struct {
		List []*PopularEntry `json:"list"`
	} `json:"data"`
}

// PopularClient 热门排行查询客户端
// watch 命令用它周期性拉取排行快照
type PopularClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPopularClient 创建排行查询客户端
func NewPopularClient(baseURL string, timeout time.Duration) *PopularClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PopularClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch 拉取长度为 limit 的热门排行
func (c *PopularClient) Fetch(ctx context.Context, limit int) ([]*PopularEntry, error) {
	url := c.baseURL + "/api/resources/popular"
	if limit > 0 {
		url += "?limit=" + strconv.Itoa(limit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build popular request failed")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "popular request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("popular request unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read popular response failed")
	}

	var res popularRes
	if err := sonic.Unmarshal(body, &res); err != nil {
		return nil, errors.Wrap(err, "decode popular response failed")
	}
	if !res.Status {
		return nil, fmt.Errorf("popular request rejected: code=%d message=%s", res.Code, res.Message)
	}

	return res.Data.List, nil
}
