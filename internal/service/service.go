// Package service 实现业务逻辑层
package service

// ServiceConfig Service 层配置
// 从 AppConfig 提取 Service 层需要的配置，避免 Service 依赖完整配置
type ServiceConfig struct {
	Usage   UsageServiceConfig
	Ranking RankingServiceConfig
}

// UsageServiceConfig 使用统计服务配置
type UsageServiceConfig struct {
	// DedupEnabled 是否启用会话查看去重
	DedupEnabled bool
	// DedupTTL 去重保护窗口，支持格式：30m（分钟）、1h（小时）
	DedupTTL string
}

// RankingServiceConfig 排行服务配置
type RankingServiceConfig struct {
	// DefaultLimit 默认排行长度
	DefaultLimit int
	// MaxLimit 最大排行长度
	MaxLimit int
}
