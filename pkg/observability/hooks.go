// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about card renders, asset fetches, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetFetchHooks(&myFetchHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnRenderStart(ctx, rec.ID)
//	// ... render ...
//	observability.Render().OnRenderComplete(ctx, rec.ID, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the card renderer.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, recordID int64)
	OnRenderComplete(ctx context.Context, recordID int64, duration time.Duration, err error)

	// OnBatchComplete is called once per batch after every record resolved.
	OnBatchComplete(ctx context.Context, batchID string, total, failed int, duration time.Duration)
}

// =============================================================================
// Fetch Hooks
// =============================================================================

// FetchHooks receives events from the asset fetcher.
type FetchHooks interface {
	// OnRequest records one outgoing attempt.
	OnRequest(ctx context.Context, host, path string, attempt int)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, host, path string, statusCode int, duration time.Duration)

	// OnError records a failed attempt (network failure, timeout, decode).
	OnError(ctx context.Context, host, path string, err error)

	// OnPlaceholder records that an asset was replaced by the placeholder.
	OnPlaceholder(ctx context.Context, url string, cause error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, int64)                             {}
func (NoopRenderHooks) OnRenderComplete(context.Context, int64, time.Duration, error)    {}
func (NoopRenderHooks) OnBatchComplete(context.Context, string, int, int, time.Duration) {}

// NoopFetchHooks is a no-op implementation of FetchHooks.
type NoopFetchHooks struct{}

func (NoopFetchHooks) OnRequest(context.Context, string, string, int)                 {}
func (NoopFetchHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopFetchHooks) OnError(context.Context, string, string, error)                 {}
func (NoopFetchHooks) OnPlaceholder(context.Context, string, error)                   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	fetchHooks  FetchHooks  = NoopFetchHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any render.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetFetchHooks registers custom fetch hooks.
// This should be called once at application startup before any fetch.
func SetFetchHooks(h FetchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fetchHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Fetch returns the registered fetch hooks.
func Fetch() FetchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fetchHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	fetchHooks = NoopFetchHooks{}
	cacheHooks = NoopCacheHooks{}
}
