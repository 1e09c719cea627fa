package middleware

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/leofalp/aistudio/core/client"
	"github.com/leofalp/aistudio/providers/ai"
)

// RetryConfig holds the tuning parameters for the retry middleware. Zero values
// are replaced with the defaults documented below when NewRetryMiddleware is called.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts after the first failure.
	// A value of 3 means the provider is called at most 4 times.
	// Default: 3. Use a negative value to disable retries.
	MaxRetries int

	// InitialBackoff is the wait before the first retry. Default: 1s.
	InitialBackoff time.Duration

	// MaxBackoff caps the computed backoff. Default: 30s.
	MaxBackoff time.Duration

	// BackoffFactor is the growth multiplier between retries:
	// backoff = min(InitialBackoff * BackoffFactor^attempt, MaxBackoff).
	// Default: 2.0.
	BackoffFactor float64

	// JitterFraction adds random noise in [0, JitterFraction*backoff].
	// Default: 0.1.
	JitterFraction float64

	// MaxRetryAfter is the longest server Retry-After hint the middleware will
	// sleep for. A longer hint ends the loop with the provider error instead.
	// Default: 4 * MaxBackoff.
	MaxRetryAfter time.Duration

	// RetryableFunc reports whether an error should trigger a retry.
	// Default: [ai.IsRetryable].
	RetryableFunc func(error) bool
}

// applyRetryDefaults fills in zero-valued fields in config.
func applyRetryDefaults(config *RetryConfig) {
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}

	if config.InitialBackoff == 0 {
		config.InitialBackoff = time.Second
	}

	if config.MaxBackoff == 0 {
		config.MaxBackoff = 30 * time.Second
	}

	if config.MaxRetryAfter == 0 {
		config.MaxRetryAfter = 4 * config.MaxBackoff
	}

	if config.BackoffFactor == 0 {
		config.BackoffFactor = 2.0
	}

	if config.JitterFraction == 0 {
		config.JitterFraction = 0.1
	}

	if config.RetryableFunc == nil {
		config.RetryableFunc = ai.IsRetryable
	}
}

// computeBackoff returns the backoff duration for the given attempt (0-indexed).
// backoff = min(InitialBackoff * BackoffFactor^attempt, MaxBackoff) + jitter
func computeBackoff(config RetryConfig, attempt int) time.Duration {
	base := float64(config.InitialBackoff) * math.Pow(config.BackoffFactor, float64(attempt))
	if base > float64(config.MaxBackoff) {
		base = float64(config.MaxBackoff)
	}

	jitter := base * config.JitterFraction * rand.Float64() //nolint:gosec // non-cryptographic jitter
	return time.Duration(base + jitter)
}

// NewRetryMiddleware retries failed provider calls with exponential backoff.
//
// The wait before a retry is never shorter than the delay the server asked
// for (see [ai.RetryAfter]). The loop gives up instead of waiting when that
// delay exceeds MaxRetryAfter or would outlast the caller's deadline. An
// attempt that hit its own deadline, set by an inner timeout middleware, is
// retried while the caller's context is still live. Cancellation of the
// caller's context stops the loop at once.
//
// On exhaustion the returned error wraps both [ErrRetryExhausted] and the last
// provider error.
func NewRetryMiddleware(config RetryConfig) client.Middleware {
	applyRetryDefaults(&config)

	return func(next client.SendFunc) client.SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			var lastErr error

			for attempt := 0; attempt <= config.MaxRetries; attempt++ {
				if attempt > 0 {
					wait := computeBackoff(config, attempt-1)
					if hint := ai.RetryAfter(lastErr); hint > wait {
						if hint > config.MaxRetryAfter {
							return nil, fmt.Errorf("%w: server asked to wait %s, limit is %s: %w", ErrRetryExhausted, hint, config.MaxRetryAfter, lastErr)
						}
						wait = hint
					}
					if deadline, ok := ctx.Deadline(); ok && wait > time.Until(deadline) {
						return nil, fmt.Errorf("%w: next retry in %s is past the deadline: %w", ErrRetryExhausted, wait.Round(time.Millisecond), lastErr)
					}

					timer := time.NewTimer(wait)
					select {
					case <-ctx.Done():
						timer.Stop()
						return nil, ctx.Err()
					case <-timer.C:
					}
				}

				response, err := next(ctx, request)
				if err == nil {
					return response, nil
				}

				lastErr = err

				if ctx.Err() != nil {
					return nil, err
				}
				if !retryable(config, err) {
					return nil, err
				}
			}

			return nil, fmt.Errorf("%w after %d retries: %w", ErrRetryExhausted, config.MaxRetries, lastErr)
		}
	}
}

// retryable treats an attempt-level deadline as transient; the caller's own
// context has already been checked.
func retryable(config RetryConfig, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return config.RetryableFunc(err)
}
