// Package assets downloads and decodes the remote images a card needs.
//
// [Fetcher.Fetch] never fails. When every attempt is exhausted, or the
// failure is permanent, it substitutes [Placeholder] and records the cause,
// so a broken cover degrades the card instead of aborting it.
//
// Supported formats are JPEG, PNG, GIF, WebP and BMP. EXIF orientation is
// applied on decode.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/workcard/pkg/buildinfo"
	"github.com/matzehuels/workcard/pkg/cache"
	"github.com/matzehuels/workcard/pkg/errors"
	"github.com/matzehuels/workcard/pkg/httputil"
	"github.com/matzehuels/workcard/pkg/observability"
)

// DefaultMaxBytes caps a single download.
const DefaultMaxBytes = 20 << 20

// Asset is the outcome of one fetch.
type Asset struct {
	Image image.Image
	// Placeholder reports that Image is the substitute bitmap.
	Placeholder bool
	// Cause is why the placeholder was used, nil otherwise.
	Cause error
	// Cached reports that the bytes came from the cache.
	Cached bool
}

// Fetcher downloads images with bounded retries. It is safe for concurrent
// use.
type Fetcher struct {
	client   *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	policy   httputil.Policy
	maxBytes int64
	logger   *log.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client. Per-attempt timeouts come from the
// retry policy, so the client itself needs none.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithCache stores downloaded bytes in c. A nil keyer uses the default.
func WithCache(c cache.Cache, keyer cache.Keyer, ttl time.Duration) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.cache = c
		}
		if keyer != nil {
			f.keyer = keyer
		}
		if ttl > 0 {
			f.ttl = ttl
		}
	}
}

// WithPolicy sets the retry policy.
func WithPolicy(p httputil.Policy) Option {
	return func(f *Fetcher) { f.policy = p }
}

// WithMaxBytes caps the size of one download.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a Fetcher. Without options it uses no cache, the
// default retry policy and log.Default().
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:   &http.Client{},
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		ttl:      cache.TTLAsset,
		policy:   httputil.DefaultPolicy(),
		maxBytes: DefaultMaxBytes,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads and decodes the image at rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) Asset {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return f.placeholder(ctx, rawURL, errors.New(errors.ErrCodeAssetUnavailable, "invalid asset url %q", rawURL))
	}

	key := f.keyer.AssetKey(rawURL)
	if img, ok := f.fromCache(ctx, key); ok {
		return Asset{Image: img, Cached: true}
	}

	var (
		img  image.Image
		data []byte
	)
	attempt := 0
	policy := f.policy
	policy.OnRetry = func(n int, err error) {
		f.logger.Warn("asset fetch failed, retrying", "url", rawURL, "attempt", n, "error", err)
	}
	err = httputil.Do(ctx, policy, func(ctx context.Context) error {
		attempt++
		observability.Fetch().OnRequest(ctx, u.Host, u.Path, attempt)
		b, err := f.get(ctx, u)
		if err != nil {
			observability.Fetch().OnError(ctx, u.Host, u.Path, err)
			return err
		}
		decoded, err := decode(b)
		if err != nil {
			observability.Fetch().OnError(ctx, u.Host, u.Path, err)
			return err
		}
		img, data = decoded, b
		return nil
	})
	if err != nil {
		return f.placeholder(ctx, rawURL, errors.Wrap(errors.ErrCodeAssetUnavailable, err, "fetch %s after %d attempt(s)", rawURL, attempt))
	}

	if err := f.cache.Set(ctx, key, data, f.ttl); err != nil {
		f.logger.Debug("asset cache write failed", "url", rawURL, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "asset", len(data))
	}
	return Asset{Image: img}
}

func (f *Fetcher) fromCache(ctx context.Context, key string) (image.Image, bool) {
	data, hit, err := f.cache.Get(ctx, key)
	if err != nil {
		f.logger.Debug("asset cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "asset")
		return nil, false
	}
	img, err := decode(data)
	if err != nil {
		// Undecodable entries are dropped and refetched.
		_ = f.cache.Delete(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "asset")
	return img, true
}

func (f *Fetcher) get(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set("Accept", "image/*")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", u.Redacted())}
	}
	defer resp.Body.Close()
	observability.Fetch().OnResponse(ctx, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := httputil.CheckResponse(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", u.Redacted())}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("asset exceeds %d bytes", f.maxBytes)
	}
	return data, nil
}

func decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func (f *Fetcher) placeholder(ctx context.Context, rawURL string, cause error) Asset {
	f.logger.Warn("using placeholder image", "url", rawURL, "error", cause)
	observability.Fetch().OnPlaceholder(ctx, rawURL, cause)
	return Asset{Image: Placeholder(), Placeholder: true, Cause: cause}
}
