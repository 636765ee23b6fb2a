package service

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// LoginAttemptStore 记录每个来源的失败登录。
// Failures 返回当前窗口内的失败次数和窗口剩余时长，窗口过期返回 0。
// 实现可以是进程内 map（单实例）或 redis（多实例共享）。
type LoginAttemptStore interface {
	Failures(key string) (count int, remaining time.Duration)
	RecordFailure(key string)
	Clear(key string)
}

// LoginGuard 登录防爆破：窗口内达到 maxFailures 次失败后拒绝，
// 每次失败都会重置窗口起点（滚动窗口），成功登录清零。
type LoginGuard struct {
	store       LoginAttemptStore
	maxFailures int
	window      time.Duration
}

func NewLoginGuard(store LoginAttemptStore, maxFailures int, window time.Duration) *LoginGuard {
	return &LoginGuard{
		store:       store,
		maxFailures: maxFailures,
		window:      window,
	}
}

// Check 返回 (retryAfter 秒, 是否放行)
func (g *LoginGuard) Check(key string) (int, bool) {
	count, remaining := g.store.Failures(key)
	if count >= g.maxFailures && remaining > 0 {
		return int(math.Ceil(remaining.Seconds())), false
	}
	return 0, true
}

func (g *LoginGuard) RecordFailure(key string) {
	g.store.RecordFailure(key)
}

func (g *LoginGuard) Clear(key string) {
	g.store.Clear(key)
}

// ---- 进程内实现 ----

type attemptEntry struct {
	count       int
	lastFailure time.Time
}

// MemoryAttemptStore 单实例用的内存实现。不跨进程共享，重启即清空。
type MemoryAttemptStore struct {
	mu      sync.Mutex
	entries map[string]*attemptEntry
	window  time.Duration
	now     func() time.Time
}

func NewMemoryAttemptStore(window time.Duration) *MemoryAttemptStore {
	return &MemoryAttemptStore{
		entries: make(map[string]*attemptEntry),
		window:  window,
		now:     time.Now,
	}
}

// NewMemoryAttemptStoreWithClock 测试用，注入时钟
func NewMemoryAttemptStoreWithClock(window time.Duration, now func() time.Time) *MemoryAttemptStore {
	s := NewMemoryAttemptStore(window)
	s.now = now
	return s
}

func (s *MemoryAttemptStore) Failures(key string) (int, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return 0, 0
	}

	elapsed := s.now().Sub(entry.lastFailure)
	if elapsed > s.window {
		// 窗口过期即整体重置，不做按次递减
		delete(s.entries, key)
		return 0, 0
	}
	return entry.count, s.window - elapsed
}

func (s *MemoryAttemptStore) RecordFailure(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || now.Sub(entry.lastFailure) > s.window {
		s.entries[key] = &attemptEntry{count: 1, lastFailure: now}
		return
	}
	entry.count++
	entry.lastFailure = now
}

func (s *MemoryAttemptStore) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Cleanup 删除已过期的条目，由后台定时任务调用
func (s *MemoryAttemptStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if now.Sub(entry.lastFailure) > s.window {
			delete(s.entries, key)
		}
	}
}

// ---- redis 实现 ----

// RedisAttemptStore 多实例部署时共享失败计数。
// 每次失败 INCR 并刷新过期时间，天然实现滚动窗口。
type RedisAttemptStore struct {
	rdb    *redis.Client
	window time.Duration
}

func NewRedisAttemptStore(rdb *redis.Client, window time.Duration) *RedisAttemptStore {
	return &RedisAttemptStore{rdb: rdb, window: window}
}

func attemptKey(key string) string {
	return "login:failures:" + key
}

func (s *RedisAttemptStore) Failures(key string) (int, time.Duration) {
	ctx := context.Background()

	val, err := s.rdb.Get(ctx, attemptKey(key)).Result()
	if err != nil {
		return 0, 0
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, 0
	}

	ttl, err := s.rdb.TTL(ctx, attemptKey(key)).Result()
	if err != nil || ttl <= 0 {
		return 0, 0
	}
	return count, ttl
}

func (s *RedisAttemptStore) RecordFailure(key string) {
	ctx := context.Background()
	pipe := s.rdb.TxPipeline()
	pipe.Incr(ctx, attemptKey(key))
	pipe.Expire(ctx, attemptKey(key), s.window)
	pipe.Exec(ctx)
}

func (s *RedisAttemptStore) Clear(key string) {
	s.rdb.Del(context.Background(), attemptKey(key))
}
