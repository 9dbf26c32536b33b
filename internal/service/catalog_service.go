package service

import (
	"context"
	"errors"

	"github.com/haierkeys/resource-usage-service/internal/domain"
	"github.com/haierkeys/resource-usage-service/pkg/code"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogService 定义资源目录业务服务接口
// 维护上游目录服务同步来的元数据镜像
type CatalogService interface {
	// Upsert 创建或更新资源元数据
	Upsert(ctx context.Context, resource *ResourceDTO) error

	// Get 根据资源 ID 获取元数据
	Get(ctx context.Context, resourceID string) (*ResourceDTO, error)

	// List 分页获取资源列表
	List(ctx context.Context, page, pageSize int) ([]*ResourceDTO, int64, error)
}

// ResourceDTO 资源目录数据传输对象
type ResourceDTO struct {
	ResourceID string `json:"resourceId" binding:"required"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	SizeBytes  int64  `json:"sizeBytes"`
}

// catalogService 实现 CatalogService 接口
type catalogService struct {
	repo   domain.ResourceRepository
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo domain.ResourceRepository, lg *zap.Logger) CatalogService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &catalogService{repo: repo, logger: lg}
}

// Upsert 创建或更新资源元数据
func (s *catalogService) Upsert(ctx context.Context, resource *ResourceDTO) error {
	if !ValidateResourceID(resource.ResourceID) {
		return code.ErrorInvalidResourceID
	}

	entity := &domain.Resource{}
	if err := copier.Copy(entity, resource); err != nil {
		return code.ErrorServerInternal.WithDetails(err.Error())
	}

	if err := s.repo.Upsert(ctx, entity); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

// Get 根据资源 ID 获取元数据
func (s *catalogService) Get(ctx context.Context, resourceID string) (*ResourceDTO, error) {
	if !ValidateResourceID(resourceID) {
		return nil, code.ErrorInvalidResourceID
	}

	resource, err := s.repo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	dto := &ResourceDTO{}
	if err := copier.Copy(dto, resource); err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	return dto, nil
}

// List 分页获取资源列表
func (s *catalogService) List(ctx context.Context, page, pageSize int) ([]*ResourceDTO, int64, error) {
	resources, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}
	total, err := s.repo.ListCount(ctx)
	if err != nil {
		return nil, 0, code.ErrorDBQuery.WithDetails(err.Error())
	}

	dtos := make([]*ResourceDTO, 0, len(resources))
	for _, resource := range resources {
		dto := &ResourceDTO{}
		if err := copier.Copy(dto, resource); err != nil {
			s.logger.Warn("resource copy failed", zap.Error(err))
			continue
		}
		dtos = append(dtos, dto)
	}
	return dtos, total, nil
}

// 确保 catalogService 实现了 CatalogService 接口
var _ CatalogService = (*catalogService)(nil)
