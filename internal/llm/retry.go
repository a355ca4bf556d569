package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// retryPolicy says whether a failed call may be attempted again.
type retryPolicy int

const (
	retryNever retryPolicy = iota
	retryOnce
	retryAlways
)

// policyFor classifies a provider error. Cancellation and configuration
// problems are final. A malformed reply gets one more try since the model
// may do better on a second sample. Everything else, including network
// errors, is treated as transient.
func policyFor(err error) retryPolicy {
	var maxTok *ErrMaxTokensExceeded
	var invalid *ErrInvalidResponse
	var rejected *ErrRejected
	switch {
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, ErrNotConfigured),
		errors.As(err, &maxTok),
		errors.As(err, &rejected):
		return retryNever
	case errors.As(err, &invalid):
		return retryOnce
	default:
		return retryAlways
	}
}

// RetryProvider retries transient failures of the wrapped Provider with
// exponential backoff and ±20% jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig

	// OnRetry, when set, is called before each backoff sleep.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// WithRetry wraps p. MaxAttempts below 1 means a single attempt.
func WithRetry(p Provider, cfg RetryConfig) *RetryProvider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	onceUsed := false
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch policyFor(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if onceUsed {
				return nil, err
			}
			onceUsed = true
		}
		if attempt >= r.config.MaxAttempts {
			return nil, err
		}

		wait := r.delay(attempt, err)
		if r.OnRetry != nil {
			r.OnRetry(attempt, err, wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// delay is the pause after the given 1-based attempt. A rate limit's
// Retry-After wins over the computed backoff.
func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	base := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt-1))
	base = math.Min(base, float64(r.config.MaxWait))
	jittered := base * (0.8 + 0.4*rand.Float64())
	return time.Duration(math.Max(jittered, 0))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
