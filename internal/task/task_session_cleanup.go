package task

import (
	"context"
	"time"

	"github.com/haierkeys/resource-usage-service/internal/app"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionCleanupTask 会话去重记录清理任务
// 按 cron 表达式推导的间隔回收保护窗口之外的查看记录
type SessionCleanupTask struct {
	app      *app.App
	interval time.Duration
}

// Name 返回任务名称
func (t *SessionCleanupTask) Name() string {
	return "SessionGuardCleanup"
}

// LoopInterval 返回执行间隔
func (t *SessionCleanupTask) LoopInterval() time.Duration {
	return t.interval
}

// IsStartupRun 是否立即执行一次
func (t *SessionCleanupTask) IsStartupRun() bool {
	return false
}

// Run 执行清理任务
func (t *SessionCleanupTask) Run(ctx context.Context) error {
	removed := t.app.Guard.Cleanup()

	t.app.Logger().Info("task log",
		zap.String("task", t.Name()),
		zap.Int("removed", removed),
		zap.Int("remaining", t.app.Guard.Len()),
		zap.String("msg", "success"))

	return nil
}

// NewSessionCleanupTask 创建会话清理任务
// 清理间隔由配置的 cron 表达式推导，表达式为空时禁用任务
func NewSessionCleanupTask(appContainer *app.App) (Task, error) {
	expr := appContainer.Config().Usage.CleanupCron
	if expr == "" {
		return nil, nil
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	interval := schedule.Next(schedule.Next(now)).Sub(schedule.Next(now))
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	return &SessionCleanupTask{
		app:      appContainer,
		interval: interval,
	}, nil
}

// init 自动注册清理任务
func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		return NewSessionCleanupTask(appContainer)
	})
}
