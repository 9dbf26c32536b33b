package service

import (
	"context"
	"sync"
	"testing"

	"github.com/haierkeys/resource-usage-service/internal/dao"
	"github.com/haierkeys/resource-usage-service/internal/domain"
	"github.com/haierkeys/resource-usage-service/pkg/code"
	"github.com/haierkeys/resource-usage-service/pkg/writequeue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestRepos 创建基于内存 SQLite 的测试仓储
func newTestRepos(t *testing.T) (domain.UsageRepository, domain.ResourceRepository) {
	t.Helper()

	cfg := &dao.DatabaseConfig{
		Type:         "sqlite",
		Path:         ":memory:",
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}
	db, err := dao.NewDBEngineWithConfig(cfg, zap.NewNop())
	require.NoError(t, err)

	d := dao.New(db, context.Background(), dao.WithConfig(cfg))
	return dao.NewUsageRepository(d), dao.NewResourceRepository(d)
}

// newTestUsageService 创建测试用 UsageService 及其写队列
func newTestUsageService(t *testing.T) (UsageService, *writequeue.Manager) {
	t.Helper()

	usageRepo, _ := newTestRepos(t)
	wq := writequeue.New(nil, zap.NewNop())
	t.Cleanup(func() {
		_ = wq.Shutdown(context.Background())
	})
	return NewUsageService(usageRepo, wq, zap.NewNop()), wq
}

func TestUsageServiceRecordAndGet(t *testing.T) {
	svc, _ := newTestUsageService(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "res-a", domain.EventView))
	require.NoError(t, svc.Record(ctx, "res-a", domain.EventShare))

	usage, err := svc.Get(ctx, "res-a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), usage.ViewCount)
	assert.Equal(t, int64(1), usage.ShareCount)
	assert.Equal(t, int64(0), usage.DownloadCount)
}

func TestUsageServiceRejectsUnknownKind(t *testing.T) {
	svc, _ := newTestUsageService(t)

	err := svc.Record(context.Background(), "res-a", domain.EventKind("like"))
	assert.ErrorIs(t, err, code.ErrorInvalidEventKind)
}

func TestUsageServiceRejectsMalformedResourceID(t *testing.T) {
	svc, _ := newTestUsageService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Record(ctx, "", domain.EventView), code.ErrorInvalidResourceID)
	assert.ErrorIs(t, svc.Record(ctx, "bad id with spaces", domain.EventView), code.ErrorInvalidResourceID)

	_, err := svc.Get(ctx, "")
	assert.ErrorIs(t, err, code.ErrorInvalidResourceID)
}

func TestUsageServiceGetUnknownResourceReturnsZeros(t *testing.T) {
	svc, _ := newTestUsageService(t)

	usage, err := svc.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, "never-seen", usage.ResourceID)
	assert.Zero(t, usage.ViewCount)
	assert.Zero(t, usage.ShareCount)
	assert.Zero(t, usage.DownloadCount)
}

func TestUsageServiceDownloadOnUnknownResource(t *testing.T) {
	svc, _ := newTestUsageService(t)
	ctx := context.Background()

	// 首个事件即使不是查看也会创建计数行
	require.NoError(t, svc.Record(ctx, "fresh", domain.EventDownload))

	usage, err := svc.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, int64(0), usage.ViewCount)
	assert.Equal(t, int64(0), usage.ShareCount)
	assert.Equal(t, int64(1), usage.DownloadCount)
}

func TestUsageServiceConcurrentRecordsNoLoss(t *testing.T) {
	svc, _ := newTestUsageService(t)
	ctx := context.Background()

	const events = 50
	var wg sync.WaitGroup
	errCh := make(chan error, events)

	for i := 0; i < events; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- svc.Record(ctx, "hot", domain.EventView)
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	usage, err := svc.Get(ctx, "hot")
	require.NoError(t, err)
	assert.Equal(t, int64(events), usage.ViewCount)
}
