package llm

import (
	"fmt"
	"time"
)

// ErrMalformedOutput indicates model output that, after fence stripping,
// is not valid JSON. Callers are responsible for their own fallback value.
type ErrMalformedOutput struct {
	Err error
}

func (e *ErrMalformedOutput) Error() string {
	return fmt.Sprintf("malformed model output: %v", e.Err)
}

func (e *ErrMalformedOutput) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider returned a rate limit error (429)
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrUnavailable indicates the provider is down or unreachable
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model provider unavailable: %v", e.Err)
	}
	return "model provider unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrEmptyResponse indicates the provider returned no usable text output
type ErrEmptyResponse struct{}

func (e *ErrEmptyResponse) Error() string {
	return "model returned no text output"
}
