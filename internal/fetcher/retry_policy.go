package fetcher

import "time"

// RetryPolicy decides whether a failed fetch is attempted again and how
// long to wait first.
type RetryPolicy interface {
	ShouldRetry(err error, attempt int) bool
	Backoff(attempt int) time.Duration
}

// LinearRetryPolicy waits one step longer after each failed attempt, up to
// a cap. Every error counts as transient; only the attempt budget and
// context cancellation stop the loop.
type LinearRetryPolicy struct {
	maxAttempts int
	step        time.Duration
	maxDelay    time.Duration
}

// NewLinearRetryPolicy builds a policy allowing maxAttempts tries per URL
// with a 2s step and a 5s delay cap.
func NewLinearRetryPolicy(maxAttempts int) *LinearRetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &LinearRetryPolicy{
		maxAttempts: maxAttempts,
		step:        2 * time.Second,
		maxDelay:    5 * time.Second,
	}
}

// ShouldRetry reports whether another attempt is allowed after the given
// 1-based attempt failed.
func (p *LinearRetryPolicy) ShouldRetry(err error, attempt int) bool {
	if err == nil {
		return false
	}
	return attempt < p.maxAttempts
}

// Backoff returns the wait before the attempt that follows the given
// 1-based failed attempt: step times the attempt number, capped.
func (p *LinearRetryPolicy) Backoff(attempt int) time.Duration {
	delay := time.Duration(attempt) * p.step
	if delay > p.maxDelay {
		delay = p.maxDelay
	}
	return delay
}
