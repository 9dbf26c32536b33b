package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookieName 会话 Cookie 名称
	SessionCookieName = "usage_session"
	// SessionIDKey gin.Context 中存储会话 ID 的键
	SessionIDKey = "session_id"
	// sessionCookieMaxAge 会话 Cookie 有效期（秒）
	sessionCookieMaxAge = 30 * 24 * 3600
)

// SessionWithConfig 创建会话标识中间件
// 无会话 Cookie 的请求分配一个新的 UUID 会话，查看去重依赖该标识
func SessionWithConfig(cookieDomain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.New().String()
			c.SetCookie(SessionCookieName, sessionID, sessionCookieMaxAge, "/", cookieDomain, false, true)
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionIDFromGin 从 gin.Context 获取会话 ID
func GetSessionIDFromGin(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if id, exists := c.Get(SessionIDKey); exists {
		if sessionID, ok := id.(string); ok {
			return sessionID
		}
	}
	return ""
}
