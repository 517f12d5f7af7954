package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
)

// Provider gate defaults.
const (
	DefaultMaxConcurrent = 4
	DefaultQueueTimeout  = 30 * time.Second
)

// ProviderGate bounds outstanding provider calls process-wide.
// Excess requests queue in FIFO order; a request that cannot obtain a
// slot within the queue timeout fails rather than blocking forever.
// The capacity is fixed at startup and never adjusted by traffic.
type ProviderGate struct {
	sem          *semaphore.Weighted
	queueTimeout time.Duration
}

// NewProviderGate creates a gate with the given capacity and queue
// timeout. Non-positive arguments fall back to defaults.
func NewProviderGate(maxConcurrent int, queueTimeout time.Duration) *ProviderGate {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if queueTimeout <= 0 {
		queueTimeout = DefaultQueueTimeout
	}
	return &ProviderGate{
		sem:          semaphore.NewWeighted(int64(maxConcurrent)),
		queueTimeout: queueTimeout,
	}
}

// Acquire obtains a slot, waiting at most the queue timeout.
// The returned release function must be called exactly once; it is
// safe to call after ctx is cancelled.
func (g *ProviderGate) Acquire(ctx context.Context) (release func(), err error) {
	waitCtx, cancel := context.WithTimeout(ctx, g.queueTimeout)
	defer cancel()

	if err := g.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.NewTransientProviderError("queue",
			fmt.Errorf("no provider slot within %v", g.queueTimeout))
	}
	return func() { g.sem.Release(1) }, nil
}
