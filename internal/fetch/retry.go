package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aidscope/ayudas-crawler/internal/metrics"
)

// RetryPolicy controls repeated fetch attempts. The delay doubles after
// every failed attempt.
type RetryPolicy struct {
	Attempts     int
	InitialDelay time.Duration

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy builds a policy with the default three attempts and a one
// second initial delay.
func NewRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		Attempts:     3,
		InitialDelay: time.Second,
		sleep:        Sleep,
	}
}

// Getter is the single-attempt fetch contract.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Get runs fetcher.Get under the policy, backing off between attempts. The
// last error is returned once attempts run out. Context cancellation stops
// retrying immediately.
func (p *RetryPolicy) Get(ctx context.Context, fetcher Getter, url string) ([]byte, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.InitialDelay
	sleep := p.sleep
	if sleep == nil {
		sleep = Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := fetcher.Get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
		if attempt == attempts {
			break
		}
		metrics.ObserveRetry()
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
		delay *= 2
	}
	return nil, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// Sleep waits for d or until ctx is canceled.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
