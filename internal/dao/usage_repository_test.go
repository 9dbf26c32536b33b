package dao

import (
	"context"
	"testing"

	"github.com/haierkeys/resource-usage-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newTestDao 创建基于内存 SQLite 的测试 Dao
func newTestDao(t *testing.T) *Dao {
	t.Helper()

	cfg := &DatabaseConfig{
		Type:         "sqlite",
		Path:         ":memory:",
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	}
	db, err := NewDBEngineWithConfig(cfg, zap.NewNop())
	require.NoError(t, err)

	return New(db, context.Background(), WithConfig(cfg))
}

func TestUsageRepositoryIncrementCreatesRow(t *testing.T) {
	repo := NewUsageRepository(newTestDao(t))
	ctx := context.Background()

	err := repo.Increment(ctx, "res-a", domain.EventView)
	require.NoError(t, err)

	counter, err := repo.GetByResourceID(ctx, "res-a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), counter.ViewCount)
	assert.Equal(t, int64(0), counter.ShareCount)
	assert.Equal(t, int64(0), counter.DownloadCount)
}

func TestUsageRepositoryIncrementAccumulates(t *testing.T) {
	repo := NewUsageRepository(newTestDao(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Increment(ctx, "res-a", domain.EventView))
	}
	require.NoError(t, repo.Increment(ctx, "res-a", domain.EventShare))
	require.NoError(t, repo.Increment(ctx, "res-a", domain.EventDownload))
	require.NoError(t, repo.Increment(ctx, "res-a", domain.EventDownload))

	counter, err := repo.GetByResourceID(ctx, "res-a")
	require.NoError(t, err)
	assert.Equal(t, int64(5), counter.ViewCount)
	assert.Equal(t, int64(1), counter.ShareCount)
	assert.Equal(t, int64(2), counter.DownloadCount)
}

func TestUsageRepositoryGetUnknownResource(t *testing.T) {
	repo := NewUsageRepository(newTestDao(t))

	_, err := repo.GetByResourceID(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUsageRepositoryListRankedOrdering(t *testing.T) {
	repo := NewUsageRepository(newTestDao(t))
	ctx := context.Background()

	// res-b 3 次查看，res-a 与 res-c 各 1 次，res-d 只有下载
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Increment(ctx, "res-b", domain.EventView))
	}
	require.NoError(t, repo.Increment(ctx, "res-c", domain.EventView))
	require.NoError(t, repo.Increment(ctx, "res-a", domain.EventView))
	require.NoError(t, repo.Increment(ctx, "res-d", domain.EventDownload))

	ranked, err := repo.ListRanked(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	// 查看次数降序，相同次数按资源 ID 升序
	assert.Equal(t, "res-b", ranked[0].ResourceID)
	assert.Equal(t, "res-a", ranked[1].ResourceID)
	assert.Equal(t, "res-c", ranked[2].ResourceID)

	count, err := repo.CountViewed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestUsageRepositoryListAll(t *testing.T) {
	repo := NewUsageRepository(newTestDao(t))
	ctx := context.Background()

	require.NoError(t, repo.Increment(ctx, "res-b", domain.EventView))
	require.NoError(t, repo.Increment(ctx, "res-a", domain.EventShare))
	require.NoError(t, repo.Increment(ctx, "res-c", domain.EventDownload))

	// 全量列表包含未被查看过的资源，按资源 ID 升序
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "res-a", all[0].ResourceID)
	assert.Equal(t, "res-b", all[1].ResourceID)
	assert.Equal(t, "res-c", all[2].ResourceID)
	assert.Equal(t, int64(1), all[0].ShareCount)
	assert.Equal(t, int64(1), all[1].ViewCount)
	assert.Equal(t, int64(1), all[2].DownloadCount)
}

func TestUsageRepositoryListRankedLimit(t *testing.T) {
	repo := NewUsageRepository(newTestDao(t))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		require.NoError(t, repo.Increment(ctx, id, domain.EventView))
	}

	ranked, err := repo.ListRanked(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, ranked, 5)
}
