package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, 42)
	r.OnRenderComplete(ctx, 42, time.Second, nil)
	r.OnBatchComplete(ctx, "batch", 3, 1, time.Second)

	f := NoopFetchHooks{}
	f.OnRequest(ctx, "cdn.example.com", "/a.jpg", 1)
	f.OnResponse(ctx, "cdn.example.com", "/a.jpg", 200, time.Second)
	f.OnError(ctx, "cdn.example.com", "/a.jpg", nil)
	f.OnPlaceholder(ctx, "https://cdn.example.com/a.jpg", errors.New("gone"))

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "asset")
	c.OnCacheMiss(ctx, "asset")
	c.OnCacheSet(ctx, "asset", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Fetch().(NoopFetchHooks); !ok {
		t.Error("Fetch() should return NoopFetchHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customFetch := &testFetchHooks{}
	SetFetchHooks(customFetch)
	if Fetch() != customFetch {
		t.Error("SetFetchHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset() should restore NoopRenderHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testRenderHooks{}
	SetRenderHooks(custom)

	// Setting nil should be ignored
	SetRenderHooks(nil)
	SetFetchHooks(nil)
	SetCacheHooks(nil)

	if Render() != custom {
		t.Error("SetRenderHooks(nil) should be ignored")
	}
	if _, ok := Fetch().(NoopFetchHooks); !ok {
		t.Error("SetFetchHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testRenderHooks struct{ NoopRenderHooks }
type testFetchHooks struct{ NoopFetchHooks }
type testCacheHooks struct{ NoopCacheHooks }
