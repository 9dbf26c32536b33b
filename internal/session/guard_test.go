package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGuardFirstViewCountsOnce(t *testing.T) {
	g := NewGuard(time.Hour, nil)

	assert.True(t, g.FirstView("sess-1", "res-a"))
	assert.False(t, g.FirstView("sess-1", "res-a"))
	assert.False(t, g.FirstView("sess-1", "res-a"))
}

func TestGuardDistinctSessionsCountSeparately(t *testing.T) {
	g := NewGuard(time.Hour, nil)

	assert.True(t, g.FirstView("sess-1", "res-a"))
	assert.True(t, g.FirstView("sess-2", "res-a"))
	assert.True(t, g.FirstView("sess-1", "res-b"))
}

func TestGuardEmptySessionNeverDeduped(t *testing.T) {
	g := NewGuard(time.Hour, nil)

	assert.True(t, g.FirstView("", "res-a"))
	assert.True(t, g.FirstView("", "res-a"))
}

func TestGuardExpiryAllowsRecount(t *testing.T) {
	g := NewGuard(10*time.Millisecond, nil)

	assert.True(t, g.FirstView("sess-1", "res-a"))
	assert.False(t, g.FirstView("sess-1", "res-a"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, g.FirstView("sess-1", "res-a"))
}

func TestGuardCleanup(t *testing.T) {
	g := NewGuard(10*time.Millisecond, nil)

	for i := 0; i < 10; i++ {
		g.FirstView(fmt.Sprintf("sess-%d", i), "res-a")
	}
	assert.Equal(t, 10, g.Len())

	time.Sleep(20 * time.Millisecond)
	removed := g.Cleanup()
	assert.Equal(t, 10, removed)
	assert.Equal(t, 0, g.Len())
}

func TestGuardConcurrentFirstView(t *testing.T) {
	g := NewGuard(time.Hour, nil)

	const goroutines = 50
	var wg sync.WaitGroup
	counted := make(chan bool, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counted <- g.FirstView("sess-1", "res-a")
		}()
	}
	wg.Wait()
	close(counted)

	// 并发下同一会话同一资源只有一次计数
	total := 0
	for ok := range counted {
		if ok {
			total++
		}
	}
	assert.Equal(t, 1, total)
}
