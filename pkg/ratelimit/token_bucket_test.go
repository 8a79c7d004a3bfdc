package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 手动推进的时钟
type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestBucket(perMinute, burst int) (*TokenBucket, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}
	tb := NewTokenBucket(perMinute, burst)
	tb.now = clock.Now
	tb.refilled = clock.t
	return tb, clock
}

func TestTokenBucket_AllowAndRefill(t *testing.T) {
	tb, clock := newTestBucket(60, 2)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "突发容量用尽")

	clock.Advance(time.Second)
	assert.True(t, tb.Allow(), "每分钟 60 个，一秒后补充一个")
	assert.False(t, tb.Allow())

	clock.Advance(time.Hour)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "补充不超过容量")
}

func TestNewTokenBucket_DefaultBurst(t *testing.T) {
	tb := NewTokenBucket(10, 0)
	assert.Equal(t, 5.0, tb.burst)

	tb = NewTokenBucket(1, 0)
	assert.Equal(t, 1.0, tb.burst, "容量至少为 1")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("tika返回 503: %w", ErrTransient)))
	assert.True(t, IsRetryable(errors.New("dial tcp 127.0.0.1:9998: connect: connection refused")))
	assert.True(t, IsRetryable(errors.New("unexpected EOF")))
	assert.False(t, IsRetryable(errors.New("tika服务器返回错误状态码: 422")))
	assert.False(t, IsRetryable(context.DeadlineExceeded))
	assert.False(t, IsRetryable(nil))
}

func TestRetryWithBackoff(t *testing.T) {
	tb := NewTokenBucket(6000, 10).WithRetryPolicy(time.Millisecond, 2)

	calls := 0
	err := tb.RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return ErrTransient
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = tb.RetryWithBackoff(context.Background(), func() error {
		calls++
		return errors.New("bad request")
	})
	assert.EqualError(t, err, "bad request")
	assert.Equal(t, 1, calls, "不可重试的错误不重试")

	calls = 0
	err = tb.RetryWithBackoff(context.Background(), func() error {
		calls++
		return ErrTransient
	})
	assert.ErrorIs(t, err, ErrTransient)
	assert.Equal(t, 3, calls, "首次加两次重试")
}

func TestWait_ContextCancelled(t *testing.T) {
	tb, _ := newTestBucket(1, 1)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tb.Wait(ctx), context.Canceled)
}

func TestReserve_ReportsWait(t *testing.T) {
	tb, clock := newTestBucket(60, 1)
	require.True(t, tb.Allow())

	wait, ok := tb.reserve()
	assert.False(t, ok)
	assert.Equal(t, time.Second, wait)

	clock.Advance(500 * time.Millisecond)
	wait, ok = tb.reserve()
	assert.False(t, ok)
	assert.InDelta(t, float64(500*time.Millisecond), float64(wait), float64(time.Millisecond))
}
