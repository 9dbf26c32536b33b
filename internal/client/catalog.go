package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// CatalogEntry 上游目录条目
type CatalogEntry struct {
	ResourceID string `json:"resourceId"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	SizeBytes  int64  `json:"sizeBytes"`
}

// CatalogClient 上游资源目录客户端
// 目录刷新任务用它同步资源元数据镜像
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCatalogClient 创建目录客户端
// baseURL 为空时客户端不可用，调用方应跳过同步
func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CatalogClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled 是否配置了上游目录地址
func (c *CatalogClient) Enabled() bool {
	return c.baseURL != ""
}

// FetchAll 拉取上游目录的全部资源条目
func (c *CatalogClient) FetchAll(ctx context.Context) ([]*CatalogEntry, error) {
	if !c.Enabled() {
		return nil, errors.New("catalog upstream is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/resources", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build catalog request failed")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "catalog request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog response failed")
	}

	var entries []*CatalogEntry
	if err := sonic.Unmarshal(body, &entries); err != nil {
		return nil, errors.Wrap(err, "decode catalog response failed")
	}
	return entries, nil
}
