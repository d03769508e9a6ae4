package services

import (
	"context"
	"time"

	apperrors "github.com/moviehub/review/internal/errors"
)

// retryPolicy adds bounded exponential-backoff retry to a fallible
// operation. Only errors the classifier accepts are retried; everything
// else propagates immediately. Shared by page and detail fetches so
// backoff math lives in one place.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	shouldRetry func(error) bool
}

// newRetryPolicy builds a policy retrying transient errors maxAttempts
// times, doubling the delay after each failed attempt.
func newRetryPolicy(maxAttempts int, baseDelay time.Duration) *retryPolicy {
	return &retryPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		shouldRetry: apperrors.IsRetryable,
	}
}

// do runs op until it succeeds, fails fatally, the context is cancelled, or
// the attempt bound is exhausted. Exhaustion returns a RetriesExhausted
// error wrapping the last cause.
func (p *retryPolicy) do(ctx context.Context, op func(context.Context) error) error {
	delay := p.baseDelay

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !p.shouldRetry(lastErr) {
			return lastErr
		}
		if attempt == p.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return apperrors.NewRetriesExhaustedError("retry cancelled", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return apperrors.NewRetriesExhaustedError("max retry attempts exceeded", lastErr)
}

// fetchWithRetry is the typed convenience wrapper around retryPolicy.do.
func fetchWithRetry[T any](ctx context.Context, p *retryPolicy, op func(context.Context) (T, error)) (T, error) {
	var result T
	err := p.do(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	return result, err
}
