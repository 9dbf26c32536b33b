package routers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haierkeys/resource-usage-service/internal/app"
	"github.com/haierkeys/resource-usage-service/internal/dao"

	"github.com/bytedance/sonic"
	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// resBody 统一响应结构
type resBody struct {
	Code    int             `json:"code"`
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type usageData struct {
	ResourceID    string `json:"resourceId"`
	ViewCount     int64  `json:"viewCount"`
	ShareCount    int64  `json:"shareCount"`
	DownloadCount int64  `json:"downloadCount"`
}

type popularData struct {
	List []struct {
		ResourceID string `json:"resourceId"`
		Title      string `json:"title"`
		ViewCount  int64  `json:"viewCount"`
	} `json:"list"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := new(app.AppConfig)
	require.NoError(t, defaults.Set(cfg))
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = ":memory:"
	cfg.Database.AutoMigrate = true
	// 内存库只允许单连接，多个连接会各自得到独立的库
	cfg.Database.MaxOpenConns = 1
	cfg.Database.MaxIdleConns = 1

	db, err := dao.NewDBEngineWithConfig(&dao.DatabaseConfig{
		Type:         cfg.Database.Type,
		Path:         cfg.Database.Path,
		AutoMigrate:  cfg.Database.AutoMigrate,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	}, zap.NewNop())
	require.NoError(t, err)

	appContainer, err := app.NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = appContainer.Shutdown(ctx)
	})

	uni := ut.New(en.New(), en.New(), zh.New())

	return NewRouter(appContainer, uni)
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, *resBody) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	body := new(resBody)
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), body))
	return w, body
}

func TestRecordAndGetUsage(t *testing.T) {
	r := newTestRouter(t)

	for i := 0; i < 2; i++ {
		w, body := doRequest(t, r, http.MethodPost, "/api/resources/res-a/share")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Status)
	}
	_, body := doRequest(t, r, http.MethodPost, "/api/resources/res-a/download")
	assert.True(t, body.Status)

	_, body = doRequest(t, r, http.MethodGet, "/api/resources/res-a/usage")
	require.True(t, body.Status)

	var usage usageData
	require.NoError(t, sonic.Unmarshal(body.Data, &usage))
	assert.Equal(t, "res-a", usage.ResourceID)
	assert.Equal(t, int64(0), usage.ViewCount)
	assert.Equal(t, int64(2), usage.ShareCount)
	assert.Equal(t, int64(1), usage.DownloadCount)
}

func TestViewDedupWithinSession(t *testing.T) {
	r := newTestRouter(t)

	// 第一次查看分配会话 Cookie
	w, body := doRequest(t, r, http.MethodPost, "/api/resources/res-a/view")
	require.True(t, body.Status)

	var sessionCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "usage_session" {
			sessionCookie = ck
		}
	}
	require.NotNil(t, sessionCookie)

	// 同一会话在保护窗口内的重复查看只计一次
	for i := 0; i < 3; i++ {
		_, body = doRequest(t, r, http.MethodPost, "/api/resources/res-a/view", sessionCookie)
		assert.True(t, body.Status)
	}

	_, body = doRequest(t, r, http.MethodGet, "/api/resources/res-a/usage")
	var usage usageData
	require.NoError(t, sonic.Unmarshal(body.Data, &usage))
	assert.Equal(t, int64(1), usage.ViewCount)
}

func TestViewDistinctSessionsCounted(t *testing.T) {
	r := newTestRouter(t)

	// 不携带 Cookie 的每次请求都会分配新的会话
	for i := 0; i < 3; i++ {
		_, body := doRequest(t, r, http.MethodPost, "/api/resources/res-a/view")
		require.True(t, body.Status)
	}

	_, body := doRequest(t, r, http.MethodGet, "/api/resources/res-a/usage")
	var usage usageData
	require.NoError(t, sonic.Unmarshal(body.Data, &usage))
	assert.Equal(t, int64(3), usage.ViewCount)
}

func TestUnknownResourceReturnsZeroCounts(t *testing.T) {
	r := newTestRouter(t)

	_, body := doRequest(t, r, http.MethodGet, "/api/resources/never-seen/usage")
	require.True(t, body.Status)

	var usage usageData
	require.NoError(t, sonic.Unmarshal(body.Data, &usage))
	assert.Equal(t, "never-seen", usage.ResourceID)
	assert.Zero(t, usage.ViewCount)
	assert.Zero(t, usage.ShareCount)
	assert.Zero(t, usage.DownloadCount)
}

func TestInvalidResourceIDRejected(t *testing.T) {
	r := newTestRouter(t)

	w, body := doRequest(t, r, http.MethodPost, "/api/resources/%21bad%21/view")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, body.Status)
}

func TestPopularOrderingAndDefaultLimit(t *testing.T) {
	r := newTestRouter(t)

	// res-1 最热，依次递减，共 7 个资源
	for i := 1; i <= 7; i++ {
		for j := 0; j <= 7-i; j++ {
			_, body := doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/resources/res-%d/view", i))
			require.True(t, body.Status)
		}
	}

	// 缺省 limit 返回前 5 名
	_, body := doRequest(t, r, http.MethodGet, "/api/resources/popular")
	require.True(t, body.Status)

	var popular popularData
	require.NoError(t, sonic.Unmarshal(body.Data, &popular))
	require.Len(t, popular.List, 5)

	for i, entry := range popular.List {
		assert.Equal(t, fmt.Sprintf("res-%d", i+1), entry.ResourceID)
		assert.Equal(t, int64(8-(i+1)), entry.ViewCount)
	}
}

func TestPopularCustomLimit(t *testing.T) {
	r := newTestRouter(t)

	for _, id := range []string{"res-a", "res-b", "res-c"} {
		_, body := doRequest(t, r, http.MethodPost, "/api/resources/"+id+"/view")
		require.True(t, body.Status)
	}

	_, body := doRequest(t, r, http.MethodGet, "/api/resources/popular?limit=2")
	require.True(t, body.Status)

	var popular popularData
	require.NoError(t, sonic.Unmarshal(body.Data, &popular))
	assert.Len(t, popular.List, 2)
}

func TestPopularExcludesShareOnlyResources(t *testing.T) {
	r := newTestRouter(t)

	_, body := doRequest(t, r, http.MethodPost, "/api/resources/res-viewed/view")
	require.True(t, body.Status)
	_, body = doRequest(t, r, http.MethodPost, "/api/resources/res-shared/share")
	require.True(t, body.Status)

	_, body = doRequest(t, r, http.MethodGet, "/api/resources/popular")
	require.True(t, body.Status)

	var popular popularData
	require.NoError(t, sonic.Unmarshal(body.Data, &popular))
	require.Len(t, popular.List, 1)
	assert.Equal(t, "res-viewed", popular.List[0].ResourceID)
}

func TestHealthAndVersion(t *testing.T) {
	r := newTestRouter(t)

	w, body := doRequest(t, r, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Status)

	_, body = doRequest(t, r, http.MethodGet, "/api/version")
	assert.True(t, body.Status)
}

func TestNotFoundRoute(t *testing.T) {
	r := newTestRouter(t)

	_, body := doRequest(t, r, http.MethodGet, "/api/nope")
	assert.False(t, body.Status)
}
