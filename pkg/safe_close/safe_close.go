// Package safe_close coordinates graceful shutdown of long-lived goroutines
// Package safe_close 协调长生命周期 goroutine 的优雅关闭
package safe_close

import (
	"sync"
)

// SafeClose fans one close signal out to every attached goroutine and
// waits for all of them to report completion.
// SafeClose 将一个关闭信号扇出给所有挂载的 goroutine，并等待它们全部完成
type SafeClose struct {
	mu         sync.Mutex
	closeOnce  sync.Once
	closeCh    chan struct{}
	closeErr   error
	attachedWg sync.WaitGroup
}

// NewSafeClose creates a SafeClose instance
func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeCh: make(chan struct{}),
	}
}

// Attach runs f in its own goroutine. f must call done() when it has
// finished cleaning up and must return promptly once closeSignal fires.
// Attach 在独立 goroutine 中运行 f。f 清理完成后必须调用 done()，
// 并且在 closeSignal 触发后尽快返回
func (s *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	s.attachedWg.Add(1)
	go f(s.attachedWg.Done, s.closeCh)
}

// SendCloseSignal requests shutdown. The first error wins; later calls
// are no-ops.
// SendCloseSignal 请求关闭。记录第一个错误，后续调用为空操作
func (s *SafeClose) SendCloseSignal(err error) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closeErr = err
		s.mu.Unlock()
		close(s.closeCh)
	})
}

// WaitClosed blocks until every attached goroutine called done, then
// returns the error passed to the first SendCloseSignal, if any.
// WaitClosed 阻塞直到所有挂载的 goroutine 调用 done，返回首个关闭错误
func (s *SafeClose) WaitClosed() error {
	<-s.closeCh
	s.attachedWg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeErr
}

// CloseSignal exposes the close channel for select loops that cannot
// use Attach.
func (s *SafeClose) CloseSignal() <-chan struct{} {
	return s.closeCh
}
