// Package session 提供基于会话的重复事件防护
// Package session provides session based duplicate event protection
// 同一会话对同一资源的重复查看在保护窗口内只计一次
package session

import (
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"
)

// DefaultTTL 默认的重复查看保护窗口
const DefaultTTL = 30 * time.Minute

// Guard 会话查看去重防护
// 以 sessionID:resourceID 为键记录最近一次计数的时间
type Guard struct {
	seen   cmap.ConcurrentMap[string, int64]
	ttl    time.Duration
	logger *zap.Logger
}

// NewGuard 创建去重防护
func NewGuard(ttl time.Duration, logger *zap.Logger) *Guard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		seen:   cmap.New[int64](),
		ttl:    ttl,
		logger: logger,
	}
}

// key 组合会话与资源为映射键
func key(sessionID, resourceID string) string {
	return sessionID + ":" + resourceID
}

// FirstView reports whether this view should be counted
// FirstView 返回本次查看是否应计数
// 窗口内的重复查看返回 false，窗口过期后重新计数
func (g *Guard) FirstView(sessionID, resourceID string) bool {
	if sessionID == "" {
		// 无会话标识时不做去重
		return true
	}

	k := key(sessionID, resourceID)
	now := time.Now().Unix()

	if g.seen.SetIfAbsent(k, now) {
		return true
	}

	// 已存在，检查是否过期
	counted := false
	g.seen.Upsert(k, now, func(exist bool, valueInMap int64, newValue int64) int64 {
		if !exist || time.Since(time.Unix(valueInMap, 0)) >= g.ttl {
			counted = true
			return newValue
		}
		return valueInMap
	})
	return counted
}

// Cleanup removes entries older than the protection window
// Cleanup 清理保护窗口之外的记录，返回清理数量
func (g *Guard) Cleanup() int {
	removed := 0
	for item := range g.seen.IterBuffered() {
		if time.Since(time.Unix(item.Val, 0)) >= g.ttl {
			g.seen.Remove(item.Key)
			removed++
		}
	}

	if removed > 0 {
		g.logger.Debug("session guard cleanup",
			zap.Int("removed", removed),
			zap.Int("remaining", g.seen.Count()))
	}
	return removed
}

// Len 返回当前记录数量
func (g *Guard) Len() int {
	return g.seen.Count()
}

// TTL 返回保护窗口长度
func (g *Guard) TTL() time.Duration {
	return g.ttl
}
