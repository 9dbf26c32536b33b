package api_router

import (
	"github.com/haierkeys/resource-usage-service/internal/app"
	"github.com/haierkeys/resource-usage-service/internal/domain"
	"github.com/haierkeys/resource-usage-service/internal/middleware"
	pkgapp "github.com/haierkeys/resource-usage-service/pkg/app"
	"github.com/haierkeys/resource-usage-service/pkg/code"
	"github.com/haierkeys/resource-usage-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// UsageHandler 使用事件记录处理器
type UsageHandler struct {
	*Handler
}

// NewUsageHandler 创建使用事件处理器实例
func NewUsageHandler(a *app.App) *UsageHandler {
	return &UsageHandler{Handler: NewHandler(a)}
}

// View 记录一次查看事件
// @Summary 记录查看
// @Description 同一会话在保护窗口内的重复查看只计一次
// @Tags 使用统计
// @Produce json
// @Param id path string true "资源 ID"
// @Success 200 {object} pkgapp.Res
// @Router /api/resources/{id}/view [post]
func (h *UsageHandler) View(c *gin.Context) {
	resourceID := c.Param("id")

	// 会话去重仅作用于查看事件
	if h.App.Config().Usage.DedupEnabled {
		sessionID := middleware.GetSessionIDFromGin(c)
		if !h.App.Guard.FirstView(sessionID, resourceID) {
			// 保护窗口内的重复查看不再计数，但仍然视为成功
			pkgapp.NewResponse(c).ToResponse(code.Success)
			return
		}
	}

	h.record(c, resourceID, domain.EventView)
}

// Share 记录一次分享事件
// @Summary 记录分享
// @Tags 使用统计
// @Produce json
// @Param id path string true "资源 ID"
// @Success 200 {object} pkgapp.Res
// @Router /api/resources/{id}/share [post]
func (h *UsageHandler) Share(c *gin.Context) {
	h.record(c, c.Param("id"), domain.EventShare)
}

// Download 记录一次下载事件
// @Summary 记录下载
// @Tags 使用统计
// @Produce json
// @Param id path string true "资源 ID"
// @Success 200 {object} pkgapp.Res
// @Router /api/resources/{id}/download [post]
func (h *UsageHandler) Download(c *gin.Context) {
	h.record(c, c.Param("id"), domain.EventDownload)
}

// record 调用服务层记录事件并输出统一响应
func (h *UsageHandler) record(c *gin.Context, resourceID string, kind domain.EventKind) {
	if err := h.App.UsageService.Record(c.Request.Context(), resourceID, kind); err != nil {
		errors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessRecord)
}

// Usage 查询资源的三类事件计数
// @Summary 查询使用计数
// @Description 从未被记录过的资源返回全零计数
// @Tags 使用统计
// @Produce json
// @Param id path string true "资源 ID"
// @Success 200 {object} pkgapp.Res{data=service.UsageDTO}
// @Router /api/resources/{id}/usage [get]
func (h *UsageHandler) Usage(c *gin.Context) {
	dto, err := h.App.UsageService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		errors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(dto))
}
