// Package limiter provides token bucket based rate limiting
// Package limiter 提供基于令牌桶的限流能力
package limiter

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// Face is the limiter interface consumed by the middleware layer
// Face 是中间件层使用的限流器接口
type Face interface {
	// Key extracts the bucket key for the incoming request
	// Key 提取当前请求对应的桶键
	Key(c *gin.Context) string
	// GetBucket returns the token bucket for key if one is configured
	// GetBucket 返回 key 对应的令牌桶（如有配置）
	GetBucket(key string) (*ratelimit.Bucket, bool)
	// AddBuckets registers bucket rules
	// AddBuckets 注册桶规则
	AddBuckets(rules ...BucketRule) Face
}

// BucketRule describes one token bucket
// BucketRule 描述单个令牌桶
type BucketRule struct {
	// Key 路由前缀
	Key string
	// FillInterval 填充间隔
	FillInterval time.Duration
	// Capacity 桶容量
	Capacity int64
	// Quantum 每次填充数量
	Quantum int64
}

// Limiter holds the registered buckets
// Limiter 保存注册的令牌桶
type Limiter struct {
	limiterBuckets map[string]*ratelimit.Bucket
}

// MethodLimiter rate limits by URI prefix
// MethodLimiter 按 URI 前缀限流
type MethodLimiter struct {
	*Limiter
}

// NewMethodLimiter 创建按方法限流的限流器
func NewMethodLimiter() Face {
	return MethodLimiter{
		Limiter: &Limiter{limiterBuckets: make(map[string]*ratelimit.Bucket)},
	}
}

// Key uses the URI without query string as bucket key
// Key 使用去掉查询串的 URI 作为桶键
func (l MethodLimiter) Key(c *gin.Context) string {
	uri := c.Request.RequestURI
	index := strings.Index(uri, "?")
	if index == -1 {
		return uri
	}
	return uri[:index]
}

// GetBucket matches by longest registered prefix
// GetBucket 按注册的前缀匹配
func (l MethodLimiter) GetBucket(key string) (*ratelimit.Bucket, bool) {
	if bucket, ok := l.limiterBuckets[key]; ok {
		return bucket, true
	}
	for prefix, bucket := range l.limiterBuckets {
		if strings.HasPrefix(key, prefix) {
			return bucket, true
		}
	}
	return nil, false
}

// AddBuckets 注册桶规则
func (l MethodLimiter) AddBuckets(rules ...BucketRule) Face {
	for _, rule := range rules {
		if _, ok := l.limiterBuckets[rule.Key]; !ok {
			l.limiterBuckets[rule.Key] = ratelimit.NewBucketWithQuantum(rule.FillInterval, rule.Capacity, rule.Quantum)
		}
	}
	return l
}
