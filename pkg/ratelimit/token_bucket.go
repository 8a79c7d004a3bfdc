// Package ratelimit 令牌桶限流，用于上传接口限流与外部提取服务的重试退避
package ratelimit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrTransient 标记可重试的临时错误，调用方用 %w 包装
var ErrTransient = errors.New("临时错误")

// TokenBucket 令牌桶限流器，可并发使用
type TokenBucket struct {
	mu       sync.Mutex
	perSec   float64 // 每秒补充的令牌数
	burst    float64 // 桶容量
	tokens   float64
	refilled time.Time
	now      func() time.Time

	backoff    time.Duration // 首次重试前的等待，之后逐次翻倍
	maxRetries int
}

// NewTokenBucket 每分钟 perMinute 个令牌，burst 为桶容量（<=0 时取 perMinute 的一半，至少为 1）
func NewTokenBucket(perMinute int, burst int) *TokenBucket {
	perMinute = max(perMinute, 1)
	if burst <= 0 {
		burst = max(perMinute/2, 1)
	}
	return &TokenBucket{
		perSec:     float64(perMinute) / 60,
		burst:      float64(burst),
		tokens:     float64(burst),
		refilled:   time.Now(),
		now:        time.Now,
		backoff:    500 * time.Millisecond,
		maxRetries: 2,
	}
}

// WithRetryPolicy 设置首次退避时间与最大重试次数
func (tb *TokenBucket) WithRetryPolicy(backoff time.Duration, maxRetries int) *TokenBucket {
	if backoff > 0 {
		tb.backoff = backoff
	}
	if maxRetries >= 0 {
		tb.maxRetries = maxRetries
	}
	return tb
}

// reserve 尝试取走一个令牌；令牌不足时返回还需等待的时长
func (tb *TokenBucket) reserve() (time.Duration, bool) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	tb.tokens = min(tb.burst, tb.tokens+now.Sub(tb.refilled).Seconds()*tb.perSec)
	tb.refilled = now

	if tb.tokens >= 1 {
		tb.tokens--
		return 0, true
	}
	return time.Duration((1 - tb.tokens) / tb.perSec * float64(time.Second)), false
}

// Allow 有令牌时消耗一个并返回 true，不阻塞
func (tb *TokenBucket) Allow() bool {
	_, ok := tb.reserve()
	return ok
}

// Wait 阻塞到取得令牌或 ctx 结束
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		wait, ok := tb.reserve()
		if ok {
			return nil
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// RetryWithBackoff 每次尝试前取令牌；fn 返回可重试错误时按指数退避重试
func (tb *TokenBucket) RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := tb.backoff
	for attempt := 0; ; attempt++ {
		if err := tb.Wait(ctx); err != nil {
			return err
		}
		err := fn()
		if err == nil || attempt >= tb.maxRetries || !IsRetryable(err) {
			return err
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		delay *= 2
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRetryable 显式标记的临时错误或连接层抖动可以重试；ctx 取消与超时不重试
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrTransient):
		return true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}

	msg := err.Error()
	for _, s := range []string{"connection refused", "connection reset", "broken pipe", "EOF"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
