// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"github.com/haierkeys/resource-usage-service/internal/app"
)

// Handler 所有处理器的基类,持有应用容器
type Handler struct {
	App *app.App
}

// NewHandler 创建基础处理器
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}
