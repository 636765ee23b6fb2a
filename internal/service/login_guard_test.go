package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestGuard(maxFailures int, window time.Duration) (*LoginGuard, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryAttemptStoreWithClock(window, clock.Now)
	return NewLoginGuard(store, maxFailures, window), clock
}

func TestLoginGuardAllowsUnderLimit(t *testing.T) {
	guard, _ := newTestGuard(5, 15*time.Minute)

	for i := 0; i < 4; i++ {
		guard.RecordFailure("1.2.3.4")
	}

	retryAfter, ok := guard.Check("1.2.3.4")
	assert.True(t, ok)
	assert.Zero(t, retryAfter)
}

func TestLoginGuardBlocksAtLimit(t *testing.T) {
	guard, clock := newTestGuard(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		guard.RecordFailure("1.2.3.4")
	}

	retryAfter, ok := guard.Check("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 900, retryAfter)

	// 等待途中 retryAfter 递减
	clock.Advance(10 * time.Minute)
	retryAfter, ok = guard.Check("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 300, retryAfter)
}

// 窗口过期后整体重置，不做按次递减
func TestLoginGuardWindowExpiryResets(t *testing.T) {
	guard, clock := newTestGuard(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		guard.RecordFailure("1.2.3.4")
	}
	clock.Advance(16 * time.Minute)

	_, ok := guard.Check("1.2.3.4")
	assert.True(t, ok)

	// 重置后重新计数
	guard.RecordFailure("1.2.3.4")
	_, ok = guard.Check("1.2.3.4")
	assert.True(t, ok)
}

// 每次失败刷新窗口起点：持续失败的来源不会因时间流逝解锁
func TestLoginGuardRollingWindow(t *testing.T) {
	guard, clock := newTestGuard(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		guard.RecordFailure("1.2.3.4")
		clock.Advance(10 * time.Minute)
	}

	// 最后一次失败才过去 10 分钟，仍在窗口内
	_, ok := guard.Check("1.2.3.4")
	assert.False(t, ok)
}

func TestLoginGuardClearOnSuccess(t *testing.T) {
	guard, _ := newTestGuard(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		guard.RecordFailure("1.2.3.4")
	}
	guard.Clear("1.2.3.4")

	_, ok := guard.Check("1.2.3.4")
	assert.True(t, ok)
}

func TestLoginGuardKeysAreIndependent(t *testing.T) {
	guard, _ := newTestGuard(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		guard.RecordFailure("1.2.3.4")
	}

	_, ok := guard.Check("5.6.7.8")
	assert.True(t, ok)
}

func TestMemoryAttemptStoreCleanup(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	store := NewMemoryAttemptStoreWithClock(15*time.Minute, clock.Now)

	store.RecordFailure("a")
	store.RecordFailure("b")
	clock.Advance(20 * time.Minute)
	store.RecordFailure("c")

	store.Cleanup()

	count, _ := store.Failures("a")
	assert.Zero(t, count)
	count, _ = store.Failures("c")
	assert.Equal(t, 1, count)
}
