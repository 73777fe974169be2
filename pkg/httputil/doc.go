// Package httputil provides retry helpers for outbound HTTP requests.
//
// # Retry
//
// [Do] wraps a request with bounded retries for transient failures:
//
//   - Network errors
//   - Per-attempt timeouts
//   - 5xx server errors
//   - 429 rate limit responses
//
// Callers mark an error as transient by wrapping it in [RetryableError];
// [CheckResponse] does this for status codes. The delay doubles after each
// failed attempt:
//
//	err := httputil.Do(ctx, httputil.DefaultPolicy(), func(ctx context.Context) error {
//	    req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckResponse(resp)
//	})
//
// # Configuration
//
// [DefaultPolicy] is 3 attempts, a 500ms initial delay and a 10s timeout per
// attempt.
package httputil
