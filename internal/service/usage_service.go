package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/haierkeys/resource-usage-service/internal/domain"
	"github.com/haierkeys/resource-usage-service/pkg/code"
	"github.com/haierkeys/resource-usage-service/pkg/logger"
	"github.com/haierkeys/resource-usage-service/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UsageService 定义使用统计业务服务接口
type UsageService interface {
	// Record 记录一次使用事件
	// 同一资源的事件通过写队列串行化，并发计数不丢失
	Record(ctx context.Context, resourceID string, kind domain.EventKind) error

	// Get 获取资源的三类事件计数
	// 从未被记录的资源返回全零计数而不是错误
	Get(ctx context.Context, resourceID string) (*UsageDTO, error)
}

// UsageDTO 使用计数数据传输对象
type UsageDTO struct {
	ResourceID    string `json:"resourceId"`
	ViewCount     int64  `json:"viewCount"`
	ShareCount    int64  `json:"shareCount"`
	DownloadCount int64  `json:"downloadCount"`
}

// resourceIDPattern 合法资源 ID：字母数字、连字符、下划线、点
var resourceIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateResourceID 校验资源 ID 格式
func ValidateResourceID(resourceID string) bool {
	return resourceIDPattern.MatchString(resourceID)
}

// usageService 实现 UsageService 接口
type usageService struct {
	repo       domain.UsageRepository
	writeQueue *writequeue.Manager
	logger     *zap.Logger
}

// NewUsageService 创建 UsageService 实例
func NewUsageService(repo domain.UsageRepository, wq *writequeue.Manager, lg *zap.Logger) UsageService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &usageService{
		repo:       repo,
		writeQueue: wq,
		logger:     lg,
	}
}

// Record 记录一次使用事件
func (s *usageService) Record(ctx context.Context, resourceID string, kind domain.EventKind) error {
	if !ValidateResourceID(resourceID) {
		eventsRejectedTotal.WithLabelValues("invalid_resource_id").Inc()
		return code.ErrorInvalidResourceID
	}
	if _, ok := domain.ParseEventKind(string(kind)); !ok {
		eventsRejectedTotal.WithLabelValues("unknown_kind").Inc()
		return code.ErrorInvalidEventKind
	}

	// 同一资源的递增通过写队列串行执行
	err := s.writeQueue.Execute(ctx, resourceID, func() error {
		return s.repo.Increment(ctx, resourceID, kind)
	})
	if err != nil {
		if errors.Is(err, writequeue.ErrWriteQueueFull) {
			eventsRejectedTotal.WithLabelValues("queue_full").Inc()
			return code.ErrorTooManyRequests
		}
		s.logger.Error("usage event record failed",
			zap.String(logger.FieldResourceID, resourceID),
			zap.String(logger.FieldKind, string(kind)),
			zap.Error(err))
		return code.ErrorRecordFailed.WithDetails(err.Error())
	}

	eventsRecordedTotal.WithLabelValues(string(kind)).Inc()

	s.logger.Debug("usage event recorded",
		zap.String(logger.FieldResourceID, resourceID),
		zap.String(logger.FieldKind, string(kind)))

	return nil
}

// Get 获取资源的三类事件计数
func (s *usageService) Get(ctx context.Context, resourceID string) (*UsageDTO, error) {
	if !ValidateResourceID(resourceID) {
		return nil, code.ErrorInvalidResourceID
	}

	counter, err := s.repo.GetByResourceID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 未被记录过的资源按全零计数返回
			return &UsageDTO{ResourceID: resourceID}, nil
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	return &UsageDTO{
		ResourceID:    counter.ResourceID,
		ViewCount:     counter.ViewCount,
		ShareCount:    counter.ShareCount,
		DownloadCount: counter.DownloadCount,
	}, nil
}

// 确保 usageService 实现了 UsageService 接口
var _ UsageService = (*usageService)(nil)
