package task

import (
	"context"
	"time"

	"github.com/haierkeys/resource-usage-service/internal/app"
	"github.com/haierkeys/resource-usage-service/internal/service"
	"github.com/haierkeys/resource-usage-service/pkg/util"

	"go.uber.org/zap"
)

// CatalogRefreshTask 目录元数据同步任务
// 周期性拉取上游目录并通过 Worker Pool 并发写入镜像
type CatalogRefreshTask struct {
	app      *app.App
	interval time.Duration
}

// Name 返回任务名称
func (t *CatalogRefreshTask) Name() string {
	return "CatalogRefresh"
}

// LoopInterval 返回执行间隔
func (t *CatalogRefreshTask) LoopInterval() time.Duration {
	return t.interval
}

// IsStartupRun 是否立即执行一次
func (t *CatalogRefreshTask) IsStartupRun() bool {
	return true
}

// Run 执行目录同步
func (t *CatalogRefreshTask) Run(ctx context.Context) error {
	entries, err := t.app.CatalogClient.FetchAll(ctx)
	if err != nil {
		return err
	}

	var failed int
	for _, entry := range entries {
		dto := &service.ResourceDTO{
			ResourceID: entry.ResourceID,
			Title:      entry.Title,
			Category:   entry.Category,
			SizeBytes:  entry.SizeBytes,
		}
		// 单条失败不中断整轮同步
		if err := t.app.SubmitTask(ctx, func(taskCtx context.Context) error {
			return t.app.CatalogService.Upsert(taskCtx, dto)
		}); err != nil {
			failed++
			t.app.Logger().Warn("catalog entry sync failed",
				zap.String("resourceId", entry.ResourceID),
				zap.Error(err))
		}
	}

	t.app.Logger().Info("task log",
		zap.String("task", t.Name()),
		zap.Int("total", len(entries)),
		zap.Int("failed", failed),
		zap.String("msg", "success"))

	return nil
}

// NewCatalogRefreshTask 创建目录同步任务
// 未配置上游目录地址时禁用任务
func NewCatalogRefreshTask(appContainer *app.App) (Task, error) {
	if !appContainer.CatalogClient.Enabled() {
		return nil, nil
	}

	intervalStr := appContainer.Config().Usage.CatalogRefreshInterval
	interval, err := util.ParseDuration(intervalStr)
	if err != nil || interval <= 0 {
		interval = 15 * time.Minute
	}

	return &CatalogRefreshTask{
		app:      appContainer,
		interval: interval,
	}, nil
}

// init 自动注册目录同步任务
func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		return NewCatalogRefreshTask(appContainer)
	})
}
