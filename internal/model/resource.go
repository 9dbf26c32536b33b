package model

import (
	"github.com/haierkeys/resource-usage-service/pkg/timex"
)

// Resource 资源目录表
// 从上游目录服务同步的元数据镜像
type Resource struct {
	ID         int64      `gorm:"column:id;primaryKey;autoIncrement"`
	ResourceID string     `gorm:"column:resource_id;size:128;uniqueIndex;not null"`
	Title      string     `gorm:"column:title;size:512"`
	Category   string     `gorm:"column:category;size:128;index"`
	SizeBytes  int64      `gorm:"column:size_bytes;not null;default:0"`
	CreatedAt  timex.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  timex.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName 表名
func (Resource) TableName() string {
	return "resource"
}
