package zones

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// RetryConfig configures exponential backoff for page requests.
type RetryConfig struct {
	MaxAttempts int           // Maximum number of attempts per page (default: DefaultMaxRetryAttempts)
	BaseDelay   time.Duration // Initial delay between retries (default: DefaultRetryBaseDelay)
	MaxDelay    time.Duration // Maximum delay cap (default: DefaultRetryMaxDelay)
}

const (
	DefaultMaxRetryAttempts = 3
	DefaultRetryBaseDelay   = 1 * time.Second
	DefaultRetryMaxDelay    = 30 * time.Second
)

// DefaultRetryConfig returns the defaults used when the config file omits retry.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: DefaultMaxRetryAttempts,
		BaseDelay:   DefaultRetryBaseDelay,
		MaxDelay:    DefaultRetryMaxDelay,
	}
}

// sleep waits for d or until ctx is done. Tests replace it.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retry runs fn until it succeeds, returns a non-retryable error, or the
// attempt budget is spent.
func retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxRetryAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultRetryBaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultRetryMaxDelay
	}

	var lastErr error
	var zero T
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !isRetryable(err) {
			return zero, err
		}
		lastErr = err

		if attempt < cfg.MaxAttempts-1 {
			if serr := sleep(ctx, backoffDelay(attempt, cfg.BaseDelay, cfg.MaxDelay)); serr != nil {
				return zero, serr
			}
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// backoffDelay computes delay with exponential backoff and jitter.
func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	delay := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if delay > max {
		delay = max
	}
	// ±25% jitter
	jitter := time.Duration(rand.Int63n(int64(delay)/2 + 1)) //nolint:gosec // jitter doesn't need crypto/rand
	return delay/2 + jitter
}
