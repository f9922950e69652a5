package retryx

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/autovista-ai/autovista-backend/pkg/config"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 250 * time.Millisecond
	defaultMaxDelay    = 5 * time.Second
)

// Policy describes a bounded exponential backoff schedule.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// NewPolicy builds a Policy from configuration, filling in defaults for
// missing or nonsensical values.
func NewPolicy(cfg config.RetryConfig) Policy {
	p := Policy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		MaxDelay:    cfg.MaxDelay,
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = defaultMaxDelay
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = p.BaseDelay
	}
	return p
}

// Do runs fn under the policy's backoff schedule. fn signals a retryable
// failure by returning Retryable(err); any other error stops immediately.
// MaxAttempts counts the initial call, so MaxAttempts=3 means at most two
// retries.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.NewExponential(p.BaseDelay)
	backoff = retry.WithCappedDuration(p.MaxDelay, backoff)
	backoff = retry.WithMaxRetries(uint64(p.MaxAttempts-1), backoff)
	return retry.Do(ctx, backoff, fn)
}

// Retryable marks err as eligible for another attempt.
func Retryable(err error) error {
	return retry.RetryableError(err)
}
