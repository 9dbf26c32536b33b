package poller

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStartupRunPopulatesSnapshot(t *testing.T) {
	p := New(&Config{
		Interval:     time.Hour,
		FetchTimeout: time.Second,
		StartupRun:   true,
	}, func(ctx context.Context) (interface{}, error) {
		return "snapshot-1", nil
	}, zap.NewNop())

	p.Start()
	defer p.Stop()

	assert.Eventually(t, func() bool {
		snapshot, _ := p.Snapshot()
		return snapshot == "snapshot-1"
	}, 2*time.Second, 10*time.Millisecond)

	assert.NoError(t, p.LastError())
}

func TestFailedFetchKeepsLastSnapshot(t *testing.T) {
	var calls atomic.Int32
	p := New(&Config{
		Interval:     time.Hour,
		FetchTimeout: time.Second,
		StartupRun:   false,
	}, func(ctx context.Context) (interface{}, error) {
		if calls.Add(1) == 1 {
			return "good", nil
		}
		return nil, errors.New("upstream unavailable")
	}, zap.NewNop())

	p.Start()
	defer p.Stop()

	p.RefreshNow()
	snapshot, firstAt := p.Snapshot()
	require.Equal(t, "good", snapshot)

	p.RefreshNow()

	// 失败的刷新保留上一次成功的快照
	snapshot, secondAt := p.Snapshot()
	assert.Equal(t, "good", snapshot)
	assert.Equal(t, firstAt, secondAt)
	assert.Error(t, p.LastError())
}

func TestLastErrorClearedAfterSuccess(t *testing.T) {
	var calls atomic.Int32
	p := New(nil, func(ctx context.Context) (interface{}, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("boom")
		}
		return "ok", nil
	}, zap.NewNop())
	defer p.Stop()

	p.RefreshNow()
	require.Error(t, p.LastError())

	p.RefreshNow()
	assert.NoError(t, p.LastError())
	snapshot, _ := p.Snapshot()
	assert.Equal(t, "ok", snapshot)
}

func TestOverlappingRefreshSkipped(t *testing.T) {
	block := make(chan struct{})
	var calls atomic.Int32

	p := New(&Config{
		Interval:     time.Hour,
		FetchTimeout: 5 * time.Second,
		StartupRun:   false,
	}, func(ctx context.Context) (interface{}, error) {
		calls.Add(1)
		<-block
		return "done", nil
	}, zap.NewNop())
	defer p.Stop()

	go p.RefreshNow()

	assert.Eventually(t, func() bool {
		return calls.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// 上一次拉取未结束时的刷新被跳过
	p.RefreshNow()
	assert.Equal(t, int32(1), calls.Load())

	close(block)
}

func TestStopWithoutStart(t *testing.T) {
	p := New(nil, func(ctx context.Context) (interface{}, error) {
		return nil, nil
	}, zap.NewNop())

	// 未启动过的轮询器也可以安全停止
	p.Stop()
	p.Stop()
}

func TestStopTerminatesLoop(t *testing.T) {
	var calls atomic.Int32
	p := New(&Config{
		Interval:     20 * time.Millisecond,
		FetchTimeout: time.Second,
		StartupRun:   true,
	}, func(ctx context.Context) (interface{}, error) {
		calls.Add(1)
		return "x", nil
	}, zap.NewNop())

	p.Start()

	assert.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	p.Stop()
	after := calls.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}
