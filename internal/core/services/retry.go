package services

import (
	"context"
	"time"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/logger"
)

// Retry policy defaults. Transient provider failures are retried with
// exponential backoff; permanent failures surface immediately.
const (
	DefaultMaxAttempts  = 3
	DefaultBackoffBase  = 500 * time.Millisecond
	defaultBackoffLimit = 8 * time.Second
)

// retryPolicy bounds how often a provider call is reattempted.
type retryPolicy struct {
	maxAttempts int
	backoffBase time.Duration
}

// defaultRetryPolicy returns the standard policy.
func defaultRetryPolicy() retryPolicy {
	return retryPolicy{maxAttempts: DefaultMaxAttempts, backoffBase: DefaultBackoffBase}
}

// withRetry runs fn, retrying transient provider failures up to the
// attempt bound with exponential backoff. Context cancellation stops
// the retry loop immediately.
func withRetry[T any](ctx context.Context, p retryPolicy, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := p.backoffBase << (attempt - 1)
			if backoff > defaultBackoffLimit {
				backoff = defaultBackoffLimit
			}
			logger.Debug("Retrying %s (attempt %d/%d) after %v", op, attempt+1, p.maxAttempts, backoff)

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !domain.IsTransient(err) {
			return zero, err
		}
		logger.Warn("Transient failure in %s: %v", op, err)
	}

	return zero, lastErr
}
