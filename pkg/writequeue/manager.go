// Package writequeue provides per-resource write queues
// Package writequeue 提供按资源划分的写队列
// Serializing increments on the same resource guarantees no update is lost
// to a race, while distinct resources proceed fully in parallel.
// 串行化同一资源的递增操作保证不会因竞争丢失更新，不同资源完全并行。
package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Error definitions
// 错误定义
var (
	// ErrWriteQueueFull returned when a resource write queue is full
	// ErrWriteQueueFull 当资源写队列已满时返回
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed returned when the manager is closed
	// ErrWriteQueueClosed 当写队列管理器已关闭时返回
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout returned when a write operation times out
	// ErrWriteTimeout 当写操作超时时返回
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config write queue configuration
// Config 写队列配置
type Config struct {
	// QueueCapacity per-resource queue capacity, default 64
	// QueueCapacity 每资源队列容量，默认 64
	QueueCapacity int
	// WriteTimeout write operation timeout, default 30 seconds
	// WriteTimeout 写操作超时时间，默认 30 秒
	WriteTimeout time.Duration
	// IdleTimeout idle queue cleanup timeout, default 10 minutes
	// IdleTimeout 空闲队列清理超时时间，默认 10 分钟
	IdleTimeout time.Duration
}

// DefaultConfig returns the default configuration
// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 64,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

// writeOp a single queued write operation
// writeOp 单个排队写操作
type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

// keyQueue serialized write queue for one resource key
// keyQueue 单个资源键的串行写队列
type keyQueue struct {
	key      string
	ch       chan writeOp
	lastUsed atomic.Int64
	closed   atomic.Bool
	workerWg sync.WaitGroup
	stopCh   chan struct{}
}

// Manager owns all per-resource write queues
// Manager 管理所有资源写队列
type Manager struct {
	config Config
	logger *zap.Logger

	queues sync.Map // map[string]*keyQueue

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool

	cleanupWg   sync.WaitGroup
	cleanupDone chan struct{}
}

// New creates a write queue manager
// New 创建写队列管理器
func New(cfg *Config, logger *zap.Logger) *Manager {
	if cfg == nil {
		defaultCfg := DefaultConfig()
		cfg = &defaultCfg
	}

	// Apply default values
	// 应用默认值
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 64
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 10 * time.Minute
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		config:      *cfg,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}

	m.cleanupWg.Add(1)
	go m.cleanupIdleQueues()

	m.logger.Info("write queue manager started",
		zap.Int("queueCapacity", cfg.QueueCapacity),
		zap.Duration("writeTimeout", cfg.WriteTimeout),
		zap.Duration("idleTimeout", cfg.IdleTimeout))

	return m
}

// Execute runs fn on the serialized queue for key
// Operations on the same key are processed in FIFO order by a single
// worker; fn must not hold any lock across its own blocking I/O.
// Execute 在 key 对应的串行队列上执行 fn
// 同一 key 的操作由单个 worker 按 FIFO 顺序处理
func (m *Manager) Execute(ctx context.Context, key string, fn func() error) error {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrWriteQueueClosed
	}
	m.mu.RUnlock()

	queue := m.getOrCreateQueue(key)
	if queue == nil {
		return ErrWriteQueueClosed
	}

	// The op carries a cancellable context so a caller that gives up
	// withdraws the queued operation instead of leaving it to run later
	// 操作携带可取消的上下文，调用方放弃等待时撤回排队中的操作，
	// 避免在返回失败之后又被 worker 执行
	opCtx, cancelOp := context.WithCancel(ctx)
	defer cancelOp()

	result := make(chan error, 1)
	op := writeOp{
		ctx:    opCtx,
		fn:     fn,
		result: result,
	}

	// Try submitting to the queue
	// 尝试提交到队列
	select {
	case queue.ch <- op:
	default:
		return ErrWriteQueueFull
	}

	// Wait for the result or timeout
	// 等待结果或超时
	timeout := m.config.WriteTimeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining < timeout {
			timeout = remaining
		}
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(timeout):
		return ErrWriteTimeout
	case <-m.ctx.Done():
		return ErrWriteQueueClosed
	}
}

// getOrCreateQueue gets or lazily creates the queue for key
// getOrCreateQueue 获取或懒加载创建 key 对应的队列
func (m *Manager) getOrCreateQueue(key string) *keyQueue {
	if v, ok := m.queues.Load(key); ok {
		queue := v.(*keyQueue)
		if !queue.closed.Load() {
			queue.lastUsed.Store(time.Now().UnixNano())
			return queue
		}
	}

	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return nil
	}
	m.mu.RUnlock()

	queue := &keyQueue{
		key:    key,
		ch:     make(chan writeOp, m.config.QueueCapacity),
		stopCh: make(chan struct{}),
	}
	queue.lastUsed.Store(time.Now().UnixNano())

	// LoadOrStore ensures only one queue wins per key
	// LoadOrStore 确保每个 key 只有一个队列胜出
	actual, loaded := m.queues.LoadOrStore(key, queue)
	if loaded {
		close(queue.stopCh)
		existing := actual.(*keyQueue)
		if !existing.closed.Load() {
			existing.lastUsed.Store(time.Now().UnixNano())
			return existing
		}
		// Existing queue already closed, replace it
		// 已存在的队列已关闭，需要替换
		m.queues.Store(key, queue)
	}

	queue.workerWg.Add(1)
	go m.worker(queue)

	m.logger.Debug("created write queue for resource",
		zap.String("key", key),
		zap.Int("capacity", m.config.QueueCapacity))

	return queue
}

// worker drains one key's queue serially
// worker 串行消费单个 key 的队列
func (m *Manager) worker(queue *keyQueue) {
	defer queue.workerWg.Done()
	defer func() {
		queue.closed.Store(true)
		m.logger.Debug("write queue worker stopped", zap.String("key", queue.key))
	}()

	for {
		select {
		case <-m.ctx.Done():
			m.drainQueue(queue)
			return
		case <-queue.stopCh:
			m.drainQueue(queue)
			return
		case op, ok := <-queue.ch:
			if !ok {
				return
			}
			m.executeOp(queue, op)
		}
	}
}

// executeOp executes a single write operation
// executeOp 执行单个写操作
func (m *Manager) executeOp(queue *keyQueue, op writeOp) {
	queue.lastUsed.Store(time.Now().UnixNano())

	select {
	case <-op.ctx.Done():
		op.result <- op.ctx.Err()
		return
	default:
	}

	err := op.fn()

	select {
	case op.result <- err:
	default:
	}
}

// drainQueue runs the operations still queued at shutdown
// drainQueue 排空关闭时仍在排队的操作
func (m *Manager) drainQueue(queue *keyQueue) {
	for {
		select {
		case op, ok := <-queue.ch:
			if !ok {
				return
			}
			m.executeOp(queue, op)
		default:
			return
		}
	}
}

// cleanupIdleQueues regularly reaps idle queues
// cleanupIdleQueues 定期回收空闲队列
func (m *Manager) cleanupIdleQueues() {
	defer m.cleanupWg.Done()

	ticker := time.NewTicker(m.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-m.cleanupDone:
			return
		case <-ticker.C:
			m.doCleanup()
		}
	}
}

// doCleanup performs one cleanup pass
// doCleanup 执行一次清理
func (m *Manager) doCleanup() {
	now := time.Now().UnixNano()
	idleThreshold := m.config.IdleTimeout.Nanoseconds()

	m.queues.Range(func(k, v interface{}) bool {
		key := k.(string)
		queue := v.(*keyQueue)

		lastUsed := queue.lastUsed.Load()
		if now-lastUsed > idleThreshold {
			if len(queue.ch) == 0 && !queue.closed.Load() {
				m.logger.Debug("cleaning up idle write queue",
					zap.String("key", key),
					zap.Duration("idleTime", time.Duration(now-lastUsed)))

				queue.closed.Store(true)
				close(queue.stopCh)
				m.queues.Delete(key)
			}
		}
		return true
	})
}

// Shutdown closes the manager and waits for queued operations
// ctx controls the shutdown timeout
// Shutdown 关闭管理器并等待排队操作完成，ctx 控制关闭超时
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.logger.Info("write queue manager shutting down")

	close(m.cleanupDone)

	done := make(chan struct{})
	go func() {
		m.queues.Range(func(k, v interface{}) bool {
			queue := v.(*keyQueue)
			if !queue.closed.Load() {
				queue.closed.Store(true)
				select {
				case <-queue.stopCh:
				default:
					close(queue.stopCh)
				}
			}
			return true
		})

		m.queues.Range(func(k, v interface{}) bool {
			queue := v.(*keyQueue)
			queue.workerWg.Wait()
			return true
		})

		m.cleanupWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		m.cancel()
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout, forcing cancellation")
		m.cancel()
		return ctx.Err()
	}
}

// QueueCount returns the number of live queues
// QueueCount 返回当前活跃队列数量
func (m *Manager) QueueCount() int {
	count := 0
	m.queues.Range(func(k, v interface{}) bool {
		if !v.(*keyQueue).closed.Load() {
			count++
		}
		return true
	})
	return count
}

// QueuedCount returns the number of pending operations for key
// QueuedCount 返回指定 key 队列中等待的操作数
func (m *Manager) QueuedCount(key string) int {
	if v, ok := m.queues.Load(key); ok {
		return len(v.(*keyQueue).ch)
	}
	return 0
}

// IsClosed reports whether the manager is closed
// IsClosed 返回管理器是否已关闭
func (m *Manager) IsClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}
