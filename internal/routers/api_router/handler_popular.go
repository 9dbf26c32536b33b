package api_router

import (
	"github.com/haierkeys/resource-usage-service/internal/app"
	pkgapp "github.com/haierkeys/resource-usage-service/pkg/app"
	"github.com/haierkeys/resource-usage-service/pkg/code"
	"github.com/haierkeys/resource-usage-service/pkg/convert"
	"github.com/haierkeys/resource-usage-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// PopularHandler 热门排行处理器
type PopularHandler struct {
	*Handler
}

// NewPopularHandler 创建热门排行处理器实例
func NewPopularHandler(a *app.App) *PopularHandler {
	return &PopularHandler{Handler: NewHandler(a)}
}

// PopularListRes 热门排行响应
type PopularListRes struct {
	List interface{} `json:"list"`
}

// Popular 返回按查看次数降序的热门资源
// @Summary 热门资源排行
// @Description limit 缺省或非法时使用默认长度,查看次数相同按资源 ID 升序
// @Tags 使用统计
// @Produce json
// @Param limit query int false "排行长度"
// @Success 200 {object} pkgapp.Res{data=PopularListRes}
// @Router /api/resources/popular [get]
func (h *PopularHandler) Popular(c *gin.Context) {
	// 非法的 limit 按 0 处理，由服务层回退到默认长度
	limit := convert.StrTo(c.Query("limit")).MustInt()

	list, err := h.App.RankingService.Rank(c.Request.Context(), limit)
	if err != nil {
		errors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(PopularListRes{List: list}))
}
