package connector

import (
	"context"
	"time"

	"github.com/hupe1980/omnimesh/core"
)

// RetryPolicy bounds the opt-in retry helper.
type RetryPolicy struct {
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int
	// BaseDelay is multiplied by the attempt number to get the wait before
	// that attempt.
	BaseDelay time.Duration
}

// DefaultRetryPolicy retries twice, waiting 1s then 2s.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 2, BaseDelay: time.Second}

// Delay returns the linear backoff before retry number attempt (1-based).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(attempt)
}

// Retry runs fn until it succeeds, returns a non-retryable error (see
// core.IsRetryable) or the retry budget is spent. The last error is returned.
// A cancelled ctx stops waiting between attempts.
func Retry(ctx context.Context, p RetryPolicy, fn func(context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= p.MaxRetries || !core.IsRetryable(err) {
			return err
		}
		timer := time.NewTimer(p.Delay(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
