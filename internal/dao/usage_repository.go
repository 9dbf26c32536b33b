package dao

import (
	"context"
	"time"

	"github.com/haierkeys/resource-usage-service/internal/domain"
	"github.com/haierkeys/resource-usage-service/internal/model"
	"github.com/haierkeys/resource-usage-service/pkg/timex"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// usageRepository 实现 domain.UsageRepository 接口
type usageRepository struct {
	dao *Dao
}

// NewUsageRepository 创建 UsageRepository 实例
func NewUsageRepository(dao *Dao) domain.UsageRepository {
	return &usageRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *usageRepository) toDomain(m *model.UsageCounter) *domain.UsageCounter {
	if m == nil {
		return nil
	}
	return &domain.UsageCounter{
		ResourceID:    m.ResourceID,
		ViewCount:     m.ViewCount,
		ShareCount:    m.ShareCount,
		DownloadCount: m.DownloadCount,
		CreatedAt:     time.Time(m.CreatedAt),
		UpdatedAt:     time.Time(m.UpdatedAt),
	}
}

// kindColumn 事件类型对应的计数列
func kindColumn(kind domain.EventKind) string {
	switch kind {
	case domain.EventView:
		return "view_count"
	case domain.EventShare:
		return "share_count"
	case domain.EventDownload:
		return "download_count"
	}
	return ""
}

// Increment 原子递增指定资源的指定事件计数
// 通过单条 upsert 语句完成，计数累加发生在数据库侧，不经过读改写
func (r *usageRepository) Increment(ctx context.Context, resourceID string, kind domain.EventKind) error {
	column := kindColumn(kind)
	if column == "" {
		return gorm.ErrInvalidField
	}

	row := &model.UsageCounter{
		ResourceID: resourceID,
		CreatedAt:  timex.Now(),
		UpdatedAt:  timex.Now(),
	}
	switch kind {
	case domain.EventView:
		row.ViewCount = 1
	case domain.EventShare:
		row.ShareCount = 1
	case domain.EventDownload:
		row.DownloadCount = 1
	}

	return r.dao.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "resource_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			column:       gorm.Expr(column + " + 1"),
			"updated_at": timex.Now(),
		}),
	}).Create(row).Error
}

// GetByResourceID 获取指定资源的计数
func (r *usageRepository) GetByResourceID(ctx context.Context, resourceID string) (*domain.UsageCounter, error) {
	var m model.UsageCounter
	err := r.dao.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// ListRanked 按查看次数降序返回计数列表
// 查看次数相同时按资源 ID 升序保证结果稳定，未被查看过的资源不参与排行
func (r *usageRepository) ListRanked(ctx context.Context, limit int) ([]*domain.UsageCounter, error) {
	var ms []*model.UsageCounter
	err := r.dao.db.WithContext(ctx).
		Where("view_count > ?", 0).
		Order("view_count DESC, resource_id ASC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	counters := make([]*domain.UsageCounter, 0, len(ms))
	for _, m := range ms {
		counters = append(counters, r.toDomain(m))
	}
	return counters, nil
}

// ListAll 返回全部资源的计数，按资源 ID 升序
// 包含只有分享或下载而从未被查看过的资源
func (r *usageRepository) ListAll(ctx context.Context) ([]*domain.UsageCounter, error) {
	var ms []*model.UsageCounter
	err := r.dao.db.WithContext(ctx).
		Order("resource_id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	counters := make([]*domain.UsageCounter, 0, len(ms))
	for _, m := range ms {
		counters = append(counters, r.toDomain(m))
	}
	return counters, nil
}

// CountViewed 获取被查看过的资源数量
func (r *usageRepository) CountViewed(ctx context.Context) (int64, error) {
	var count int64
	err := r.dao.db.WithContext(ctx).
		Model(&model.UsageCounter{}).
		Where("view_count > ?", 0).
		Count(&count).Error
	return count, err
}

// 确保 usageRepository 实现了 UsageRepository 接口
var _ domain.UsageRepository = (*usageRepository)(nil)
