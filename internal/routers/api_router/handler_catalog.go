package api_router

import (
	"github.com/haierkeys/resource-usage-service/internal/app"
	"github.com/haierkeys/resource-usage-service/internal/service"
	pkgapp "github.com/haierkeys/resource-usage-service/pkg/app"
	"github.com/haierkeys/resource-usage-service/pkg/code"
	"github.com/haierkeys/resource-usage-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// CatalogHandler 资源目录处理器
type CatalogHandler struct {
	*Handler
}

// NewCatalogHandler 创建资源目录处理器实例
func NewCatalogHandler(a *app.App) *CatalogHandler {
	return &CatalogHandler{Handler: NewHandler(a)}
}

// Upsert 创建或更新资源元数据
// @Summary 登记资源元数据
// @Tags 资源目录
// @Accept json
// @Produce json
// @Param body body service.ResourceDTO true "资源元数据"
// @Success 200 {object} pkgapp.Res
// @Router /api/resources [post]
func (h *CatalogHandler) Upsert(c *gin.Context) {
	param := &service.ResourceDTO{}
	valid, verrs := pkgapp.BindAndValid(c, param)
	if !valid {
		h.App.Logger().Warn("catalog upsert param error: " + verrs.ErrorsToString())
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(verrs.Errors()...))
		return
	}

	if !service.ValidateResourceID(param.ResourceID) {
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidResourceID)
		return
	}

	if err := h.App.CatalogService.Upsert(c.Request.Context(), param); err != nil {
		errors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success)
}

// Get 获取单个资源的元数据
// @Summary 查询资源元数据
// @Tags 资源目录
// @Produce json
// @Param id path string true "资源 ID"
// @Success 200 {object} pkgapp.Res{data=service.ResourceDTO}
// @Router /api/resources/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	dto, err := h.App.CatalogService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		errors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(dto))
}

// List 分页获取资源列表
// @Summary 资源列表
// @Tags 资源目录
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes}
// @Router /api/resources [get]
func (h *CatalogHandler) List(c *gin.Context) {
	page := pkgapp.GetPage(c)
	pageSize := pkgapp.GetPageSize(c)

	list, total, err := h.App.CatalogService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		errors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponseList(code.Success, list, int(total))
}
