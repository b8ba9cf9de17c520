package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig controls the retry decorator
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns the retry policy used for model calls:
// up to two retries with capped exponential backoff.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     5 * time.Second,
		Multiplier:  2.0,
	}
}

// retryClient is a decorator that retries transient errors with
// exponential backoff and jitter.
type retryClient struct {
	inner  Client
	config RetryConfig
}

// WithRetry wraps a Client with retry logic
func WithRetry(c Client, cfg RetryConfig) Client {
	return &retryClient{inner: c, config: cfg}
}

func (r *retryClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	var out string
	err := r.do(ctx, func() error {
		var err error
		out, err = r.inner.GenerateText(ctx, prompt)
		return err
	})
	return out, err
}

func (r *retryClient) GenerateTextWithFile(ctx context.Context, file *FileRef, prompt string) (string, error) {
	var out string
	err := r.do(ctx, func() error {
		var err error
		out, err = r.inner.GenerateTextWithFile(ctx, file, prompt)
		return err
	})
	return out, err
}

func (r *retryClient) UploadFile(ctx context.Context, path, mimeType string) (*FileRef, error) {
	var out *FileRef
	err := r.do(ctx, func() error {
		var err error
		out, err = r.inner.UploadFile(ctx, path, mimeType)
		return err
	})
	return out, err
}

// DeleteFile is cleanup and runs a single attempt; a failed delete is
// logged by the caller, never retried.
func (r *retryClient) DeleteFile(ctx context.Context, file *FileRef) error {
	return r.inner.DeleteFile(ctx, file)
}

func (r *retryClient) do(ctx context.Context, call func() error) error {
	var lastErr error

	for attempt := range r.config.MaxAttempts {
		err := call()
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return err
		}

		// Last attempt, don't sleep, just return the error.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return lastErr
}

// shouldRetry determines if an error is retryable
func shouldRetry(err error) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Empty output is a model behavior, not a transport fault.
	var empty *ErrEmptyResponse
	if errors.As(err, &empty) {
		return false
	}

	// Rate limit and unavailable are retryable; other errors (network,
	// etc.) are treated as transient.
	return true
}

// backoff computes the wait duration for the given attempt
func (r *retryClient) backoff(attempt int, err error) time.Duration {
	// Respect RetryAfter for rate limits.
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
