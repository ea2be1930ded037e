package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/omnimesh/core"
)

// DefaultTimeout is the per-call budget used when none is configured.
const DefaultTimeout = 8 * time.Second

// CallWithTimeout runs fn in its own goroutine and races it against timeout.
// On expiry it returns a Timeout-kind error immediately and cancels the
// context handed to fn; it does not wait for fn to return. A panic inside
// fn is recovered and reported as an Unknown-kind error. A non-positive
// timeout disables the race but keeps panic containment.
func CallWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	var (
		cctx   context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		cctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		cctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: core.NewProviderError("", core.KindUnknown, fmt.Errorf("panic: %v", r))}
			}
		}()
		v, err := fn(cctx)
		done <- result{v: v, err: err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-cctx.Done():
		if ctx.Err() == nil && errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return zero, core.NewProviderError("", core.KindTimeout,
				fmt.Errorf("timeout after %dms: %w", timeout.Milliseconds(), core.ErrTimeout))
		}
		return zero, ctx.Err()
	}
}
