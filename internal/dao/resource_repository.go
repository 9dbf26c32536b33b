package dao

import (
	"context"
	"time"

	"github.com/haierkeys/resource-usage-service/internal/domain"
	"github.com/haierkeys/resource-usage-service/internal/model"
	"github.com/haierkeys/resource-usage-service/pkg/timex"

	"gorm.io/gorm/clause"
)

// resourceRepository 实现 domain.ResourceRepository 接口
type resourceRepository struct {
	dao *Dao
}

// NewResourceRepository 创建 ResourceRepository 实例
func NewResourceRepository(dao *Dao) domain.ResourceRepository {
	return &resourceRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *resourceRepository) toDomain(m *model.Resource) *domain.Resource {
	if m == nil {
		return nil
	}
	return &domain.Resource{
		ResourceID: m.ResourceID,
		Title:      m.Title,
		Category:   m.Category,
		SizeBytes:  m.SizeBytes,
		CreatedAt:  time.Time(m.CreatedAt),
		UpdatedAt:  time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *resourceRepository) toModel(resource *domain.Resource) *model.Resource {
	if resource == nil {
		return nil
	}
	return &model.Resource{
		ResourceID: resource.ResourceID,
		Title:      resource.Title,
		Category:   resource.Category,
		SizeBytes:  resource.SizeBytes,
		CreatedAt:  timex.Time(resource.CreatedAt),
		UpdatedAt:  timex.Time(resource.UpdatedAt),
	}
}

// Upsert 创建或更新资源元数据
func (r *resourceRepository) Upsert(ctx context.Context, resource *domain.Resource) error {
	m := r.toModel(resource)
	m.UpdatedAt = timex.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = timex.Now()
	}

	return r.dao.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "resource_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "category", "size_bytes", "updated_at",
		}),
	}).Create(m).Error
}

// GetByID 根据资源 ID 获取元数据
func (r *resourceRepository) GetByID(ctx context.Context, resourceID string) (*domain.Resource, error) {
	var m model.Resource
	err := r.dao.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// List 分页获取资源列表
func (r *resourceRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Resource, error) {
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	var ms []*model.Resource
	err := r.dao.db.WithContext(ctx).
		Order("resource_id ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	resources := make([]*domain.Resource, 0, len(ms))
	for _, m := range ms {
		resources = append(resources, r.toDomain(m))
	}
	return resources, nil
}

// ListCount 获取资源总数
func (r *resourceRepository) ListCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.dao.db.WithContext(ctx).
		Model(&model.Resource{}).
		Count(&count).Error
	return count, err
}

// ListByIDs 批量获取资源元数据
func (r *resourceRepository) ListByIDs(ctx context.Context, resourceIDs []string) ([]*domain.Resource, error) {
	if len(resourceIDs) == 0 {
		return nil, nil
	}

	var ms []*model.Resource
	err := r.dao.db.WithContext(ctx).
		Where("resource_id IN ?", resourceIDs).
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	resources := make([]*domain.Resource, 0, len(ms))
	for _, m := range ms {
		resources = append(resources, r.toDomain(m))
	}
	return resources, nil
}

// 确保 resourceRepository 实现了 ResourceRepository 接口
var _ domain.ResourceRepository = (*resourceRepository)(nil)
