// Package limiter 提供管理端写操作的限流实现
package limiter

import (
	"context"
	"fmt"
	"time"
)

// LimitResult 限流结果
type LimitResult struct {
	Allowed    bool          `json:"allowed"`     // 是否允许通过
	Remaining  int64         `json:"remaining"`   // 剩余配额
	RetryAfter time.Duration `json:"retry_after"` // 建议重试时间
}

// Limiter 限流器接口
type Limiter interface {
	// Allow 检查是否允许请求通过
	Allow(ctx context.Context, key string) (*LimitResult, error)

	// AllowN 检查是否允许N个请求通过
	AllowN(ctx context.Context, key string, n int64) (*LimitResult, error)

	// Reset 重置限流状态
	Reset(ctx context.Context, key string) error
}

// Config 限流配置
type Config struct {
	Rate      int64         `json:"rate"`       // 窗口内补充速率
	Window    time.Duration `json:"window"`     // 时间窗口
	Burst     int64         `json:"burst"`      // 桶容量
	KeyPrefix string        `json:"key_prefix"` // Key前缀
}

// validate 校验限流配置。
// 补充与重试计算按整秒进行，窗口必须不小于1秒。
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("limiter config is required")
	}
	if c.Rate <= 0 {
		return fmt.Errorf("limiter rate must be positive: %d", c.Rate)
	}
	if c.Burst <= 0 {
		return fmt.Errorf("limiter burst must be positive: %d", c.Burst)
	}
	if c.Window < time.Second {
		return fmt.Errorf("limiter window must be at least 1s: %s", c.Window)
	}
	return nil
}

// NoopLimiter 限流关闭时的空实现，放行所有请求
type NoopLimiter struct{}

var _ Limiter = (*NoopLimiter)(nil)

func (NoopLimiter) Allow(context.Context, string) (*LimitResult, error) {
	return &LimitResult{Allowed: true, Remaining: -1}, nil
}

func (NoopLimiter) AllowN(context.Context, string, int64) (*LimitResult, error) {
	return &LimitResult{Allowed: true, Remaining: -1}, nil
}

func (NoopLimiter) Reset(context.Context, string) error { return nil }
