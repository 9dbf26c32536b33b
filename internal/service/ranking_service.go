package service

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/resource-usage-service/internal/domain"
	"github.com/haierkeys/resource-usage-service/pkg/code"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// 排行长度默认值
const (
	DefaultRankLimit = 5
	MaxRankLimit     = 100
)

// RankingService 定义热门排行业务服务接口
type RankingService interface {
	// Rank 返回按查看次数降序的热门资源列表
	// limit <= 0 时使用默认长度，超过上限时截断
	// 查看次数相同按资源 ID 升序，未被查看过的资源不收录
	Rank(ctx context.Context, limit int) ([]*PopularResourceDTO, error)
	// NormalizeLimit 归一化排行长度
	NormalizeLimit(limit int) int
}

// PopularResourceDTO 热门资源数据传输对象
type PopularResourceDTO struct {
	ResourceID    string `json:"resourceId"`
	Title         string `json:"title,omitempty"`
	Category      string `json:"category,omitempty"`
	ViewCount     int64  `json:"viewCount"`
	ShareCount    int64  `json:"shareCount"`
	DownloadCount int64  `json:"downloadCount"`
}

// rankingService 实现 RankingService 接口
type rankingService struct {
	usageRepo    domain.UsageRepository
	resourceRepo domain.ResourceRepository
	sf           *singleflight.Group
	logger       *zap.Logger
	config       RankingServiceConfig
}

// NewRankingService 创建 RankingService 实例
func NewRankingService(usageRepo domain.UsageRepository, resourceRepo domain.ResourceRepository, lg *zap.Logger, cfg *ServiceConfig) RankingService {
	if lg == nil {
		lg = zap.NewNop()
	}

	rankingCfg := RankingServiceConfig{
		DefaultLimit: DefaultRankLimit,
		MaxLimit:     MaxRankLimit,
	}
	if cfg != nil {
		if cfg.Ranking.DefaultLimit > 0 {
			rankingCfg.DefaultLimit = cfg.Ranking.DefaultLimit
		}
		if cfg.Ranking.MaxLimit > 0 {
			rankingCfg.MaxLimit = cfg.Ranking.MaxLimit
		}
	}

	return &rankingService{
		usageRepo:    usageRepo,
		resourceRepo: resourceRepo,
		sf:           &singleflight.Group{},
		logger:       lg,
		config:       rankingCfg,
	}
}

// NormalizeLimit 归一化排行长度
func (s *rankingService) NormalizeLimit(limit int) int {
	if limit <= 0 {
		return s.config.DefaultLimit
	}
	if limit > s.config.MaxLimit {
		return s.config.MaxLimit
	}
	return limit
}

// Rank 返回按查看次数降序的热门资源列表
// 使用 Singleflight 合并同长度的并发排行查询
func (s *rankingService) Rank(ctx context.Context, limit int) ([]*PopularResourceDTO, error) {
	limit = s.NormalizeLimit(limit)

	rankingRequestsTotal.Inc()
	started := time.Now()
	defer func() {
		rankingQueryDuration.Observe(time.Since(started).Seconds())
	}()

	key := fmt.Sprintf("popular_rank_%d", limit)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		counters, err := s.usageRepo.ListRanked(ctx, limit)
		if err != nil {
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		return s.toDTOs(ctx, counters), nil
	})
	if err != nil {
		s.logger.Error("popularity ranking query failed",
			zap.Int("limit", limit),
			zap.Error(err))
		return nil, err
	}

	return result.([]*PopularResourceDTO), nil
}

// toDTOs 将计数列表转换为 DTO 并补充目录元数据
func (s *rankingService) toDTOs(ctx context.Context, counters []*domain.UsageCounter) []*PopularResourceDTO {
	dtos := make([]*PopularResourceDTO, 0, len(counters))
	ids := make([]string, 0, len(counters))

	for _, counter := range counters {
		dto := &PopularResourceDTO{}
		if err := copier.Copy(dto, counter); err != nil {
			s.logger.Warn("counter copy failed", zap.Error(err))
			continue
		}
		dtos = append(dtos, dto)
		ids = append(ids, counter.ResourceID)
	}

	// 目录元数据缺失不影响排行返回
	resources, err := s.resourceRepo.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("ranking metadata lookup failed", zap.Error(err))
		return dtos
	}

	byID := make(map[string]*domain.Resource, len(resources))
	for _, r := range resources {
		byID[r.ResourceID] = r
	}
	for _, dto := range dtos {
		if r, ok := byID[dto.ResourceID]; ok {
			dto.Title = r.Title
			dto.Category = r.Category
		}
	}
	return dtos
}

// 确保 rankingService 实现了 RankingService 接口
var _ RankingService = (*rankingService)(nil)
