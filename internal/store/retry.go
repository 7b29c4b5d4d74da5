package store

import (
	"context"
	"errors"
	"time"

	"github.com/agyouthrise/rise-backend/internal/common"
	"gorm.io/gorm"
)

const (
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 100 * time.Millisecond
	defaultRetryMaxDelay  = 2 * time.Second
)

// RetryPolicy bounded exponential backoff for writes
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}
	return p.MaxAttempts
}

// backoffDelay attempt 1 -> base, attempt 2 -> base*2, attempt 3 -> base*4, ...
func (p RetryPolicy) backoffDelay(attempt int) time.Duration {
	base := p.BaseDelay
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultRetryMaxDelay
	}
	if base <= 0 {
		return 0
	}
	if attempt <= 0 {
		attempt = 1
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			delay = maxDelay
			break
		}
		delay *= 2
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

// shouldRetry reports whether a failed attempt may be repeated
func shouldRetry(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	switch {
	case errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, context.Canceled):
		return false
	}
	// per-attempt deadline expired while the caller is still waiting
	return true
}

// attemptFunc one try of a write. attempt is 1-based.
type attemptFunc func(ctx context.Context, attempt int) error

// withRetry runs fn under the client's retry policy with a per-attempt timeout
func (c *Client) withRetry(ctx context.Context, fn attemptFunc) error {
	maxAttempts := c.opts.Retry.attempts()
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		actx, cancel := context.WithTimeout(ctx, c.opts.WriteTimeout)
		lastErr = fn(actx, attempt)
		cancel()
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts || !shouldRetry(ctx, lastErr) {
			break
		}
		if err := c.sleep(ctx, c.opts.Retry.backoffDelay(attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.opts.Sleeper != nil {
		c.opts.Sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
