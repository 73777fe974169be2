package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/matzehuels/workcard/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(home, ".cache", "workcard"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(xdg, "workcard"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := newCache(ctx, cacheConfig{Backend: backendFile, Dir: dir}, false)
	if err != nil {
		t.Fatal(err)
	}
	if fc, ok := c.(*cache.FileCache); !ok || fc.Dir() != dir {
		t.Errorf("file backend = %T", c)
	}

	for _, tt := range []struct {
		cfg     cacheConfig
		noCache bool
	}{
		{cacheConfig{Backend: backendNone}, false},
		{cacheConfig{Backend: backendFile, Dir: dir}, true},
		{cacheConfig{Backend: backendRedis}, true},
	} {
		c, err := newCache(ctx, tt.cfg, tt.noCache)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := c.(*cache.NullCache); !ok {
			t.Errorf("newCache(%+v, %v) = %T, want *NullCache", tt.cfg, tt.noCache, c)
		}
	}
}

func TestNewStoreBackends(t *testing.T) {
	ctx := context.Background()
	if s, err := newStore(ctx, storeConfig{}); err != nil || s != nil {
		t.Errorf("default store = %v, %v; want none", s, err)
	}
	if s, err := newStore(ctx, storeConfig{Backend: "Memory"}); err != nil || s == nil {
		t.Errorf("memory store = %v, %v", s, err)
	}
}
