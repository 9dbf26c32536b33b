// Package domain 定义领域模型和接口
package domain

import "time"

// EventKind 使用事件类型
type EventKind string

const (
	// EventView 查看事件
	EventView EventKind = "view"
	// EventShare 分享事件
	EventShare EventKind = "share"
	// EventDownload 下载事件
	EventDownload EventKind = "download"
)

// ParseEventKind 解析事件类型字符串
// 未知类型返回 false
func ParseEventKind(s string) (EventKind, bool) {
	switch EventKind(s) {
	case EventView, EventShare, EventDownload:
		return EventKind(s), true
	}
	return "", false
}

// UsageCounter 资源使用计数领域模型
// 每个资源一行，三类事件分别累计
type UsageCounter struct {
	ResourceID    string
	ViewCount     int64
	ShareCount    int64
	DownloadCount int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Count 返回指定事件类型的计数
func (u *UsageCounter) Count(kind EventKind) int64 {
	switch kind {
	case EventView:
		return u.ViewCount
	case EventShare:
		return u.ShareCount
	case EventDownload:
		return u.DownloadCount
	}
	return 0
}

// Total 返回三类事件的计数总和
func (u *UsageCounter) Total() int64 {
	return u.ViewCount + u.ShareCount + u.DownloadCount
}

// HasViews 资源是否被查看过
// 排行榜只收录被查看过的资源
func (u *UsageCounter) HasViews() bool {
	return u.ViewCount > 0
}
