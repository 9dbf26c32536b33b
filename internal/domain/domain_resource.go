package domain

import "time"

// Resource 资源目录领域模型
// 使用统计服务维护的资源元数据镜像，排行结果用它补充标题等展示信息
type Resource struct {
	ResourceID string
	Title      string
	Category   string
	SizeBytes  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasMetadata 是否已同步到元数据
func (r *Resource) HasMetadata() bool {
	return r.Title != ""
}
