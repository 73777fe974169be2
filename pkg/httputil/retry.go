package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Do] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// CheckResponse returns nil for 2xx responses. 5xx and 429 responses are
// wrapped in [RetryableError]; any other status is returned as a plain
// [StatusError].
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	err := &StatusError{URL: resp.Request.URL.String(), StatusCode: resp.StatusCode}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return &RetryableError{Err: err}
	}
	return err
}

// Policy configures [Do].
type Policy struct {
	// Attempts is the total number of tries, at least 1.
	Attempts int
	// Delay is the wait before the second attempt. It doubles after each
	// failed attempt.
	Delay time.Duration
	// Timeout bounds each attempt individually. Zero means no per-attempt
	// deadline beyond the parent context.
	Timeout time.Duration
	// OnRetry, if set, is called after a retryable failure, before waiting.
	OnRetry func(attempt int, err error)
}

// DefaultPolicy is 3 attempts starting at 500ms.
func DefaultPolicy() Policy {
	return Policy{Attempts: 3, Delay: 500 * time.Millisecond, Timeout: 10 * time.Second}
}

// Do runs fn under p. Each call receives a context carrying the
// per-attempt timeout. Only errors wrapped with [RetryableError] and
// per-attempt deadline overruns are retried; other errors are returned
// immediately. Returns the last error if all attempts fail, or ctx.Err()
// if ctx is cancelled while waiting.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		err := attempt(ctx, p.Timeout, fn)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) || ctx.Err() != nil {
			return err
		}

		if i < attempts-1 {
			if p.OnRetry != nil {
				p.OnRetry(i+1, err)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

func attempt(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := fn(actx)
	if err != nil && actx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		if !isRetryable(err) {
			err = &RetryableError{Err: err}
		}
	}
	return err
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
