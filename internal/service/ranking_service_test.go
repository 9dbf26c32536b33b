package service

import (
	"context"
	"sort"
	"testing"

	"github.com/haierkeys/resource-usage-service/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestRankingService 创建测试用 RankingService 及底层仓储
func newTestRankingService(t *testing.T) (RankingService, domain.UsageRepository, domain.ResourceRepository) {
	t.Helper()

	usageRepo, resourceRepo := newTestRepos(t)
	svc := NewRankingService(usageRepo, resourceRepo, zap.NewNop(), nil)
	return svc, usageRepo, resourceRepo
}

// seedViews 为资源记录指定次数的查看
func seedViews(t *testing.T, repo domain.UsageRepository, resourceID string, views int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < views; i++ {
		require.NoError(t, repo.Increment(ctx, resourceID, domain.EventView))
	}
}

func TestRankOrderingByViews(t *testing.T) {
	svc, usageRepo, _ := newTestRankingService(t)

	seedViews(t, usageRepo, "res-low", 1)
	seedViews(t, usageRepo, "res-high", 9)
	seedViews(t, usageRepo, "res-mid", 4)

	ranked, err := svc.Rank(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "res-high", ranked[0].ResourceID)
	assert.Equal(t, "res-mid", ranked[1].ResourceID)
	assert.Equal(t, "res-low", ranked[2].ResourceID)
	assert.Equal(t, int64(9), ranked[0].ViewCount)
}

func TestRankTieBreaksByResourceID(t *testing.T) {
	svc, usageRepo, _ := newTestRankingService(t)

	// 三个资源查看次数相同，按 ID 升序稳定排序
	seedViews(t, usageRepo, "res-c", 2)
	seedViews(t, usageRepo, "res-a", 2)
	seedViews(t, usageRepo, "res-b", 2)

	ranked, err := svc.Rank(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "res-a", ranked[0].ResourceID)
	assert.Equal(t, "res-b", ranked[1].ResourceID)
	assert.Equal(t, "res-c", ranked[2].ResourceID)
}

func TestRankExcludesNeverViewed(t *testing.T) {
	svc, usageRepo, _ := newTestRankingService(t)
	ctx := context.Background()

	seedViews(t, usageRepo, "viewed", 1)
	require.NoError(t, usageRepo.Increment(ctx, "only-downloads", domain.EventDownload))
	require.NoError(t, usageRepo.Increment(ctx, "only-shares", domain.EventShare))

	ranked, err := svc.Rank(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "viewed", ranked[0].ResourceID)
}

func TestRankDefaultLimit(t *testing.T) {
	svc, usageRepo, _ := newTestRankingService(t)

	for _, id := range []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7"} {
		seedViews(t, usageRepo, id, 1)
	}

	// limit <= 0 使用默认长度 5
	ranked, err := svc.Rank(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, ranked, DefaultRankLimit)

	ranked, err = svc.Rank(context.Background(), -3)
	require.NoError(t, err)
	assert.Len(t, ranked, DefaultRankLimit)
}

func TestRankAttachesCatalogMetadata(t *testing.T) {
	svc, usageRepo, resourceRepo := newTestRankingService(t)
	ctx := context.Background()

	seedViews(t, usageRepo, "res-a", 2)
	require.NoError(t, resourceRepo.Upsert(ctx, &domain.Resource{
		ResourceID: "res-a",
		Title:      "Quarterly Report",
		Category:   "documents",
	}))

	ranked, err := svc.Rank(ctx, 5)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "Quarterly Report", ranked[0].Title)
	assert.Equal(t, "documents", ranked[0].Category)
}

func TestRankEmptyStore(t *testing.T) {
	svc, _, _ := newTestRankingService(t)

	ranked, err := svc.Rank(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

// 验证 limit 归一化始终落在 [1, MaxLimit] 区间
func TestPropertyNormalizeLimitBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	svc := &rankingService{config: RankingServiceConfig{
		DefaultLimit: DefaultRankLimit,
		MaxLimit:     MaxRankLimit,
	}}

	properties.Property("normalized limit stays within bounds", prop.ForAll(
		func(limit int) bool {
			normalized := svc.NormalizeLimit(limit)
			if limit <= 0 {
				return normalized == DefaultRankLimit
			}
			if limit > MaxRankLimit {
				return normalized == MaxRankLimit
			}
			return normalized == limit
		},
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t)
}

// 验证任意查看分布下排行始终降序且不超过 limit
func TestPropertyRankSortedAndBounded(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)

	properties.Property("rank is sorted descending and bounded", prop.ForAll(
		func(views []int) bool {
			svc, usageRepo, _ := newTestRankingService(t)
			ctx := context.Background()

			for i, v := range views {
				id := string(rune('a'+i%26)) + "-res"
				for j := 0; j < v%7; j++ {
					if err := usageRepo.Increment(ctx, id, domain.EventView); err != nil {
						return false
					}
				}
			}

			ranked, err := svc.Rank(ctx, 5)
			if err != nil {
				return false
			}
			if len(ranked) > 5 {
				return false
			}
			return sort.SliceIsSorted(ranked, func(i, j int) bool {
				if ranked[i].ViewCount != ranked[j].ViewCount {
					return ranked[i].ViewCount > ranked[j].ViewCount
				}
				return ranked[i].ResourceID < ranked[j].ResourceID
			})
		},
		gen.SliceOf(gen.IntRange(0, 20)),
	))

	properties.TestingRun(t)
}
