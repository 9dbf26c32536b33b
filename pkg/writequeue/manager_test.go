package writequeue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T, cfg *Config) *Manager {
	t.Helper()
	m := New(cfg, zap.NewNop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	})
	return m
}

func TestExecuteRunsFunction(t *testing.T) {
	m := newTestManager(t, nil)

	var ran bool
	err := m.Execute(context.Background(), "res-a", func() error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestConcurrentExecuteLosesNoWrite(t *testing.T) {
	m := newTestManager(t, &Config{QueueCapacity: 256})

	// 没有任何互斥保护的计数器，依赖队列串行化
	var counter int
	const total = 100

	var wg sync.WaitGroup
	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Execute(context.Background(), "res-a", func() error {
				counter++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, total, counter)
}

func TestDistinctKeysRunInParallel(t *testing.T) {
	m := newTestManager(t, nil)

	startedA := make(chan struct{})
	releaseA := make(chan struct{})

	go func() {
		_ = m.Execute(context.Background(), "res-a", func() error {
			close(startedA)
			<-releaseA
			return nil
		})
	}()

	<-startedA

	// res-a 的操作阻塞时 res-b 仍然可以执行
	done := make(chan error, 1)
	go func() {
		done <- m.Execute(context.Background(), "res-b", func() error {
			return nil
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("write on res-b blocked by res-a")
	}

	close(releaseA)
}

func TestFIFOOrderPerKey(t *testing.T) {
	m := newTestManager(t, &Config{QueueCapacity: 64})

	var order []int

	for i := 0; i < 20; i++ {
		i := i
		// 串行提交保证入队顺序与 i 一致
		err := m.Execute(context.Background(), "res-a", func() error {
			order = append(order, i)
			return nil
		})
		require.NoError(t, err)
	}

	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestQueueFull(t *testing.T) {
	m := newTestManager(t, &Config{QueueCapacity: 1})

	block := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = m.Execute(context.Background(), "res-a", func() error {
			close(started)
			<-block
			return nil
		})
	}()
	<-started

	// 填满容量为 1 的队列
	go func() {
		_ = m.Execute(context.Background(), "res-a", func() error { return nil })
	}()

	// 等待第二个操作进入队列
	assert.Eventually(t, func() bool {
		return m.QueuedCount("res-a") == 1
	}, 2*time.Second, 10*time.Millisecond)

	err := m.Execute(context.Background(), "res-a", func() error { return nil })
	assert.ErrorIs(t, err, ErrWriteQueueFull)

	close(block)
}

func TestTimedOutWriteIsWithdrawn(t *testing.T) {
	m := newTestManager(t, &Config{QueueCapacity: 4, WriteTimeout: 50 * time.Millisecond})

	block := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = m.Execute(context.Background(), "res-a", func() error {
			close(started)
			<-block
			return nil
		})
	}()
	<-started

	// 排在阻塞操作之后的写入会等到超时
	var counter atomic.Int32
	err := m.Execute(context.Background(), "res-a", func() error {
		counter.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, ErrWriteTimeout)

	close(block)

	// 调用方已经收到失败，超时的操作被撤回而不是延迟执行
	assert.Eventually(t, func() bool {
		return m.QueuedCount("res-a") == 0
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), counter.Load())
}

func TestCancelledWriteIsWithdrawn(t *testing.T) {
	m := newTestManager(t, nil)

	block := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = m.Execute(context.Background(), "res-a", func() error {
			close(started)
			<-block
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())

	var counter atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- m.Execute(ctx, "res-a", func() error {
			counter.Add(1)
			return nil
		})
	}()

	assert.Eventually(t, func() bool {
		return m.QueuedCount("res-a") == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)

	close(block)

	assert.Eventually(t, func() bool {
		return m.QueuedCount("res-a") == 0
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), counter.Load())
}

func TestExecuteAfterShutdown(t *testing.T) {
	m := New(nil, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))
	assert.True(t, m.IsClosed())

	err := m.Execute(context.Background(), "res-a", func() error { return nil })
	assert.ErrorIs(t, err, ErrWriteQueueClosed)
}

func TestShutdownIsIdempotent(t *testing.T) {
	m := New(nil, zap.NewNop())

	ctx := context.Background()
	require.NoError(t, m.Shutdown(ctx))
	require.NoError(t, m.Shutdown(ctx))
}

func TestQueueCount(t *testing.T) {
	m := newTestManager(t, nil)

	var executed atomic.Int32
	for _, key := range []string{"res-a", "res-b", "res-c"} {
		err := m.Execute(context.Background(), key, func() error {
			executed.Add(1)
			return nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(3), executed.Load())
	assert.Equal(t, 3, m.QueueCount())
}
