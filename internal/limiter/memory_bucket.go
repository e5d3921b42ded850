package limiter

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryTokenBucket 进程内令牌桶限流器，
// 单实例部署且未启用Redis时使用，语义与Redis版一致。
type MemoryTokenBucket struct {
	config  *Config
	mutex   sync.Mutex
	buckets map[string]*bucketState
	now     func() time.Time
}

type bucketState struct {
	tokens     int64
	lastRefill time.Time
}

var _ Limiter = (*MemoryTokenBucket)(nil)

// NewMemoryTokenBucket 创建进程内令牌桶限流器
func NewMemoryTokenBucket(config *Config) (*MemoryTokenBucket, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	return &MemoryTokenBucket{
		config:  config,
		buckets: make(map[string]*bucketState),
		now:     time.Now,
	}, nil
}

// Allow 检查是否允许请求通过
func (m *MemoryTokenBucket) Allow(ctx context.Context, key string) (*LimitResult, error) {
	return m.AllowN(ctx, key, 1)
}

// AllowN 检查是否允许N个请求通过
func (m *MemoryTokenBucket) AllowN(_ context.Context, key string, n int64) (*LimitResult, error) {
	if n <= 0 {
		return nil, fmt.Errorf("token count must be positive: %d", n)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := m.now()
	state, ok := m.buckets[key]
	if !ok {
		state = &bucketState{tokens: m.config.Burst, lastRefill: now}
		m.buckets[key] = state
	}

	// 按经过的时间补充令牌
	elapsed := now.Sub(state.lastRefill)
	if elapsed > 0 {
		refill := int64(elapsed.Seconds()) * m.config.Rate / int64(m.config.Window.Seconds())
		if refill > 0 {
			state.tokens = min(m.config.Burst, state.tokens+refill)
			state.lastRefill = now
		}
	}

	if state.tokens >= n {
		state.tokens -= n
		return &LimitResult{Allowed: true, Remaining: state.tokens}, nil
	}

	needed := n - state.tokens
	retrySeconds := (needed*int64(m.config.Window.Seconds()) + m.config.Rate - 1) / m.config.Rate
	return &LimitResult{
		Allowed:    false,
		Remaining:  state.tokens,
		RetryAfter: time.Duration(retrySeconds) * time.Second,
	}, nil
}

// Reset 重置限流状态
func (m *MemoryTokenBucket) Reset(_ context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.buckets, key)
	return nil
}
