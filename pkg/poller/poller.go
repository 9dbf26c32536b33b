// Package poller provides a fixed interval refresh loop with overlap protection
// Package poller 提供带重叠保护的固定间隔刷新循环
// A tick that arrives while the previous fetch is still running is skipped,
// and a failed fetch keeps the last successful snapshot visible.
// 上一次拉取仍在执行时到达的 tick 会被跳过，拉取失败时保留上一次成功的快照。
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// FetchFunc fetches a fresh snapshot
// FetchFunc 拉取一份新快照
type FetchFunc func(ctx context.Context) (interface{}, error)

// Config poller configuration
// Config 轮询器配置
type Config struct {
	// Interval 轮询间隔，默认 30 秒
	Interval time.Duration
	// FetchTimeout 单次拉取超时时间，默认 10 秒
	FetchTimeout time.Duration
	// StartupRun 启动时是否立即执行一次
	StartupRun bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Interval:     30 * time.Second,
		FetchTimeout: 10 * time.Second,
		StartupRun:   true,
	}
}

// Poller periodically refreshes a snapshot through FetchFunc
// Poller 通过 FetchFunc 周期性刷新快照
type Poller struct {
	config Config
	logger *zap.Logger
	fetch  FetchFunc

	// inFlight guards against overlapping fetches
	// inFlight 防止拉取重叠
	inFlight atomic.Bool

	mu          sync.RWMutex
	snapshot    interface{}
	refreshedAt time.Time
	lastErr     error

	ctx    context.Context
	cancel context.CancelFunc
	doneCh chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

// New 创建轮询器
func New(cfg *Config, fetch FetchFunc, logger *zap.Logger) *Poller {
	if cfg == nil {
		defaultCfg := DefaultConfig()
		cfg = &defaultCfg
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Poller{
		config: *cfg,
		logger: logger,
		fetch:  fetch,
		ctx:    ctx,
		cancel: cancel,
		doneCh: make(chan struct{}),
	}
}

// Start launches the refresh loop, idempotent
// Start 启动刷新循环，幂等
func (p *Poller) Start() {
	p.startOnce.Do(func() {
		go p.loop()
	})
}

// loop 刷新主循环
func (p *Poller) loop() {
	defer close(p.doneCh)

	p.logger.Info("poller started",
		zap.Duration("interval", p.config.Interval),
		zap.Bool("startupRun", p.config.StartupRun))

	if p.config.StartupRun {
		p.refreshOnce()
	}

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Info("poller stopped")
			return
		case <-ticker.C:
			p.refreshOnce()
		}
	}
}

// refreshOnce performs a single refresh, skipping if one is in flight
// refreshOnce 执行一次刷新，如有正在执行的刷新则跳过
func (p *Poller) refreshOnce() {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.logger.Warn("previous refresh still running, skipping tick")
		return
	}
	defer p.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(p.ctx, p.config.FetchTimeout)
	defer cancel()

	started := time.Now()
	snapshot, err := p.fetch(ctx)
	duration := time.Since(started)

	if err != nil {
		// 保留上一次成功的快照
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()

		p.logger.Error("refresh failed, keeping last snapshot",
			zap.Duration("duration", duration),
			zap.Error(err))
		return
	}

	p.mu.Lock()
	p.snapshot = snapshot
	p.refreshedAt = time.Now()
	p.lastErr = nil
	p.mu.Unlock()

	p.logger.Debug("refresh completed", zap.Duration("duration", duration))
}

// RefreshNow forces an immediate refresh outside the ticker
// RefreshNow 在定时器之外强制立即刷新
func (p *Poller) RefreshNow() {
	p.refreshOnce()
}

// Snapshot returns the last successful snapshot and its refresh time
// Snapshot 返回最近一次成功的快照及其刷新时间
func (p *Poller) Snapshot() (interface{}, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot, p.refreshedAt
}

// LastError returns the error of the most recent failed refresh, nil after success
// LastError 返回最近一次失败刷新的错误，成功后为 nil
func (p *Poller) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// Stop terminates the loop and waits for it to exit
// Stop 终止循环并等待其退出
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		p.startOnce.Do(func() {
			// 从未启动过，直接关闭
			close(p.doneCh)
		})
		<-p.doneCh
	})
}
