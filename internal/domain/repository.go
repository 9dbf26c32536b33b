package domain

import "context"

// UsageRepository 使用计数仓储接口
type UsageRepository interface {
	// Increment 原子递增指定资源的指定事件计数
	// 资源不存在时创建计数行
	Increment(ctx context.Context, resourceID string, kind EventKind) error

	// GetByResourceID 获取指定资源的计数
	// 资源从未被记录时返回 gorm.ErrRecordNotFound
	GetByResourceID(ctx context.Context, resourceID string) (*UsageCounter, error)

	// ListRanked 按查看次数降序返回计数列表
	// 查看次数相同时按资源 ID 升序，未被查看过的资源不返回
	ListRanked(ctx context.Context, limit int) ([]*UsageCounter, error)

	// ListAll 返回全部资源的计数，按资源 ID 升序
	ListAll(ctx context.Context) ([]*UsageCounter, error)

	// CountViewed 获取被查看过的资源数量
	CountViewed(ctx context.Context) (int64, error)
}

// ResourceRepository 资源目录仓储接口
type ResourceRepository interface {
	// Upsert 创建或更新资源元数据
	Upsert(ctx context.Context, resource *Resource) error

	// GetByID 根据资源 ID 获取元数据
	GetByID(ctx context.Context, resourceID string) (*Resource, error)

	// List 分页获取资源列表
	List(ctx context.Context, page, pageSize int) ([]*Resource, error)

	// ListCount 获取资源总数
	ListCount(ctx context.Context) (int64, error)

	// ListByIDs 批量获取资源元数据
	ListByIDs(ctx context.Context, resourceIDs []string) ([]*Resource, error)
}
