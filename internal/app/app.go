// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"sync"
	"time"

	"github.com/haierkeys/resource-usage-service/internal/client"
	"github.com/haierkeys/resource-usage-service/internal/dao"
	"github.com/haierkeys/resource-usage-service/internal/domain"
	"github.com/haierkeys/resource-usage-service/internal/service"
	"github.com/haierkeys/resource-usage-service/internal/session"
	pkgapp "github.com/haierkeys/resource-usage-service/pkg/app"
	"github.com/haierkeys/resource-usage-service/pkg/workerpool"
	"github.com/haierkeys/resource-usage-service/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，持有所有共享依赖
// 请求处理器、后台任务通过容器访问服务，避免包级全局变量
type App struct {
	config     *AppConfig
	logger     *zap.Logger
	db         *gorm.DB
	dao        *dao.Dao
	workerPool *workerpool.Pool
	writeQueue *writequeue.Manager

	// Guard 会话查看去重
	Guard *session.Guard
	// CatalogClient 上游目录客户端
	CatalogClient *client.CatalogClient

	// UsageRepo 使用计数仓储
	UsageRepo domain.UsageRepository
	// ResourceRepo 资源元数据仓储
	ResourceRepo domain.ResourceRepository

	// UsageService 事件记录服务
	UsageService service.UsageService
	// RankingService 热门排行服务
	RankingService service.RankingService
	// CatalogService 目录镜像服务
	CatalogService service.CatalogService

	// StartTime 进程启动时间，用于健康检查的 uptime
	StartTime time.Time

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
	wg           sync.WaitGroup
}

// NewApp 创建应用容器并装配所有依赖
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	a := &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	// Worker Pool 用于目录同步等后台并发写入
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// Write Queue 串行化同一资源的计数写入
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueue = writequeue.New(&wqConfig, logger)

	a.dao = dao.New(db, context.Background(),
		dao.WithConfig(a.DatabaseConfig()),
		dao.WithLogger(logger),
		dao.WithWriteQueueManager(a.writeQueue),
	)

	a.UsageRepo = dao.NewUsageRepository(a.dao)
	a.ResourceRepo = dao.NewResourceRepository(a.dao)

	a.Guard = session.NewGuard(cfg.GetDedupTTL(), logger)
	a.CatalogClient = client.NewCatalogClient(cfg.Usage.CatalogUpstream, 10*time.Second)

	svcConfig := &service.ServiceConfig{
		Usage: service.UsageServiceConfig{
			DedupEnabled: cfg.Usage.DedupEnabled,
			DedupTTL:     cfg.Usage.DedupTTL,
		},
		Ranking: service.RankingServiceConfig{
			DefaultLimit: cfg.Usage.RankDefaultLimit,
			MaxLimit:     cfg.Usage.RankMaxLimit,
		},
	}

	a.UsageService = service.NewUsageService(a.UsageRepo, a.writeQueue, logger)
	a.RankingService = service.NewRankingService(a.UsageRepo, a.ResourceRepo, logger, svcConfig)
	a.CatalogService = service.NewCatalogService(a.ResourceRepo, logger)

	return a, nil
}

// Config 返回应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 返回日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// DB 返回数据库连接
func (a *App) DB() *gorm.DB {
	return a.db
}

// Dao 返回数据访问对象
func (a *App) Dao() *dao.Dao {
	return a.dao
}

// WriteQueue 返回写入队列管理器
func (a *App) WriteQueue() *writequeue.Manager {
	return a.writeQueue
}

// DatabaseConfig 将应用配置转换为 Dao 层数据库配置
func (a *App) DatabaseConfig() *dao.DatabaseConfig {
	c := a.config
	return &dao.DatabaseConfig{
		Type:            c.Database.Type,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Name:            c.Database.Name,
		TablePrefix:     c.Database.TablePrefix,
		AutoMigrate:     c.Database.AutoMigrate,
		Charset:         c.Database.Charset,
		ParseTime:       c.Database.ParseTime,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
		RunMode:         c.Server.RunMode,
	}
}

// Version 返回构建版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// SubmitTask 提交任务到 Worker Pool 并等待入队
func (a *App) SubmitTask(ctx context.Context, fn func(context.Context) error) error {
	return a.workerPool.Submit(ctx, fn)
}

// SubmitTaskAsync 异步提交任务到 Worker Pool
func (a *App) SubmitTaskAsync(ctx context.Context, fn func(context.Context) error) error {
	return a.workerPool.SubmitAsync(ctx, fn)
}

// TrackOperation 跟踪长时间运行的操作，Shutdown 会等待其完成
func (a *App) TrackOperation(fn func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn()
	}()
}

// IsShuttingDown 返回容器是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownCh 返回关闭通知通道
func (a *App) ShutdownCh() <-chan struct{} {
	return a.shutdownCh
}

// Shutdown 按依赖顺序优雅关闭容器
// 先停止接收新任务，再排空队列，最后关闭数据库连接
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error

	a.shutdownOnce.Do(func() {
		close(a.shutdownCh)

		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("worker pool shutdown failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}

		if err := a.writeQueue.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue shutdown failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}

		// 等待跟踪中的操作完成，受 ctx 限时
		waitCh := make(chan struct{})
		go func() {
			a.wg.Wait()
			close(waitCh)
		}()
		select {
		case <-waitCh:
		case <-ctx.Done():
			a.logger.Warn("tracked operations did not finish before deadline")
			if firstErr == nil {
				firstErr = ctx.Err()
			}
		}

		if a.db != nil {
			if sqlDB, err := a.db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					a.logger.Warn("database close failed", zap.Error(err))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}

		a.logger.Info("app container shutdown complete")
	})

	return firstErr
}
