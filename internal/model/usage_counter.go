package model

import (
	"github.com/haierkeys/resource-usage-service/pkg/timex"
)

// UsageCounter 资源使用计数表
// 每个资源一行，事件到达时在数据库侧原子累加
type UsageCounter struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement"`
	ResourceID    string     `gorm:"column:resource_id;size:128;uniqueIndex;not null"`
	ViewCount     int64      `gorm:"column:view_count;not null;default:0;index:idx_usage_rank,priority:1,sort:desc"`
	ShareCount    int64      `gorm:"column:share_count;not null;default:0"`
	DownloadCount int64      `gorm:"column:download_count;not null;default:0"`
	CreatedAt     timex.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     timex.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName 表名
func (UsageCounter) TableName() string {
	return "usage_counter"
}
