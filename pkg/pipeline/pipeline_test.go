package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/workcard/pkg/assets"
	"github.com/matzehuels/workcard/pkg/errors"
	"github.com/matzehuels/workcard/pkg/record"
	"github.com/matzehuels/workcard/pkg/store"
	"github.com/matzehuels/workcard/pkg/theme"
)

var fixedTime = time.Date(2025, 2, 17, 9, 30, 5, 0, time.UTC)

func writeFont(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "goregular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "cards")
	cfg.FontPath = writeFont(t)
	return cfg
}

// staticFetcher serves one solid image for every URL.
type staticFetcher struct {
	size  image.Point
	calls atomic.Int32
}

func (f *staticFetcher) Fetch(ctx context.Context, url string) assets.Asset {
	f.calls.Add(1)
	img := image.NewNRGBA(image.Rectangle{Max: f.size})
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 120, 80, 160, 255
	}
	return assets.Asset{Image: img}
}

func testRecord(id int64) record.Work {
	return record.Work{
		ID:            id,
		Title:         "Dark Dancer",
		CoverURL:      "https://img.example.com/cover.png",
		Author:        "anka",
		Category:      "二次元",
		MediaCategory: "2D illustration",
		Views:         12345,
		Popularity:    678,
		CreatedAt:     time.Date(2025, 2, 17, 9, 30, 0, 0, time.UTC),
	}
}

func newTestRenderer(t *testing.T, cfg Config, opts ...Option) *Renderer {
	t.Helper()
	opts = append([]Option{
		WithFetcher(&staticFetcher{size: image.Pt(900, 600)}),
		WithClock(func() time.Time { return fixedTime }),
	}, opts...)
	r, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestFileName(t *testing.T) {
	if got, want := FileName(42, fixedTime), "42_20250217_093005.png"; got != want {
		t.Errorf("FileName = %q, want %q", got, want)
	}
	if err := errors.ValidateCardFilename(FileName(7, fixedTime)); err != nil {
		t.Errorf("generated name rejected: %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	font := writeFont(t)
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"missing font", func(c *Config) { c.FontPath = "" }},
		{"min above max", func(c *Config) { c.MinWidth, c.MaxWidth = 900, 600 }},
		{"negative min", func(c *Config) { c.MinWidth = -1 }},
		{"padding too large", func(c *Config) { c.PaddingRatio = 0.3 }},
		{"negative padding", func(c *Config) { c.PaddingRatio = -0.1 }},
		{"negative radius", func(c *Config) { c.CornerRadius = -2 }},
		{"negative concurrency", func(c *Config) { c.Concurrency = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.OutputDir = t.TempDir()
			cfg.FontPath = font
			tt.modify(&cfg)
			_, err := New(cfg)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("New error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestNewFontLoad(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.ttf")
	if err := os.WriteFile(bad, []byte("not a font"), 0644); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{bad, filepath.Join(dir, "missing.ttf")} {
		cfg := DefaultConfig()
		cfg.OutputDir = dir
		cfg.FontPath = path
		if _, err := New(cfg); !errors.Is(err, errors.ErrCodeFontLoad) {
			t.Errorf("New(%s) error = %v, want FONT_LOAD", filepath.Base(path), err)
		}
	}
}

func TestNewCreatesOutputDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputDir = filepath.Join(cfg.OutputDir, "nested", "deeper")
	newTestRenderer(t, cfg)
	if fi, err := os.Stat(cfg.OutputDir); err != nil || !fi.IsDir() {
		t.Errorf("output dir not created: %v", err)
	}
}

func TestRender(t *testing.T) {
	cfg := testConfig(t)
	r := newTestRenderer(t, cfg)
	rec := testRecord(42)

	card, err := r.Render(context.Background(), &rec, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if want := filepath.Join(cfg.OutputDir, "42_20250217_093005.png"); card.Path != want {
		t.Errorf("Path = %q, want %q", card.Path, want)
	}
	if card.DetailURL != "https://www.ggac.com/work/detail/42" {
		t.Errorf("DetailURL = %q", card.DetailURL)
	}
	if card.Theme != "anime" {
		t.Errorf("Theme = %q, want anime from category", card.Theme)
	}
	if len(card.Degraded) != 0 {
		t.Errorf("Degraded = %v, want none", card.Degraded)
	}

	f, err := os.Open(card.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode written card: %v", err)
	}
	if img.Bounds() != card.Image.Bounds() {
		t.Errorf("written size %v, card size %v", img.Bounds(), card.Image.Bounds())
	}
	if img.Bounds().Dx() != 900 {
		t.Errorf("width = %d, want cover width 900", img.Bounds().Dx())
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("corner alpha = %d, want transparent", a)
	}
}

func TestRenderVariantOverridesCategory(t *testing.T) {
	r := newTestRenderer(t, testConfig(t))
	rec := testRecord(1)
	card, err := r.Render(context.Background(), &rec, "Film")
	if err != nil {
		t.Fatal(err)
	}
	if card.Theme != "film" {
		t.Errorf("Theme = %q, want film", card.Theme)
	}

	_, err = r.Render(context.Background(), &rec, "vaporwave")
	if !errors.Is(err, errors.ErrCodeInvalidVariant) {
		t.Errorf("unknown variant error = %v, want INVALID_VARIANT", err)
	}
}

func TestRenderMalformedRecord(t *testing.T) {
	fetcher := &staticFetcher{size: image.Pt(900, 600)}
	r := newTestRenderer(t, testConfig(t), WithFetcher(fetcher))

	tests := []struct {
		name   string
		modify func(*record.Work)
	}{
		{"missing id", func(w *record.Work) { w.ID = 0 }},
		{"missing title", func(w *record.Work) { w.Title = "  " }},
		{"missing cover", func(w *record.Work) { w.CoverURL = "" }},
		{"bad cover scheme", func(w *record.Work) { w.CoverURL = "ftp://example.com/a.png" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testRecord(5)
			tt.modify(&rec)
			if _, err := r.Render(context.Background(), &rec, ""); !errors.Is(err, errors.ErrCodeMalformedRecord) {
				t.Errorf("error = %v, want MALFORMED_RECORD", err)
			}
		})
	}
	if _, err := r.Render(context.Background(), nil, ""); !errors.Is(err, errors.ErrCodeMalformedRecord) {
		t.Errorf("nil record error = %v, want MALFORMED_RECORD", err)
	}
	if n := fetcher.calls.Load(); n != 0 {
		t.Errorf("fetcher called %d times for invalid records", n)
	}
}

func TestRenderDoesNotModifyRecord(t *testing.T) {
	r := newTestRenderer(t, testConfig(t))
	rec := testRecord(9)
	rec.Title = "  padded  "
	rec.SubCategories = []record.Category{{Name: "illustration"}}
	before := rec
	if _, err := r.Render(context.Background(), &rec, ""); err != nil {
		t.Fatal(err)
	}
	if rec.Title != before.Title || rec.SubCategories[0] != before.SubCategories[0] {
		t.Errorf("record modified: %+v", rec)
	}
}

func TestRenderDeterministic(t *testing.T) {
	cfg := testConfig(t)
	cfg.CallToAction = true
	render := func(dir string) []byte {
		c := cfg
		c.OutputDir = dir
		r := newTestRenderer(t, c)
		rec := testRecord(77)
		rec.AvatarURL = "https://img.example.com/avatar.png"
		card, err := r.Render(context.Background(), &rec, "")
		if err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(card.Path)
		if err != nil {
			t.Fatal(err)
		}
		return data
	}
	a := render(t.TempDir())
	b := render(t.TempDir())
	if !bytes.Equal(a, b) {
		t.Error("identical inputs with a fixed clock produced different PNG bytes")
	}
}

// Cover server fails every attempt; the card still renders over the
// placeholder.
func TestRenderCoverUnavailable(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Fetch.InitialDelay = time.Millisecond
	r, err := New(cfg, WithClock(func() time.Time { return fixedTime }))
	if err != nil {
		t.Fatal(err)
	}

	rec := testRecord(3)
	rec.CoverURL = srv.URL + "/cover.png"
	card, err := r.Render(context.Background(), &rec, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := hits.Load(); got != DefaultFetchAttempts {
		t.Errorf("server hit %d times, want %d", got, DefaultFetchAttempts)
	}
	if len(card.Degraded) != 1 || card.Degraded[0] != AssetCover {
		t.Errorf("Degraded = %v, want [cover]", card.Degraded)
	}
	if !errors.Is(card.Causes[0], errors.ErrCodeAssetUnavailable) {
		t.Errorf("cause = %v, want ASSET_UNAVAILABLE", card.Causes[0])
	}
	if w := card.Image.Bounds().Dx(); w != assets.PlaceholderWidth {
		t.Errorf("width = %d, want placeholder width %d", w, assets.PlaceholderWidth)
	}
	if _, err := os.Stat(card.Path); err != nil {
		t.Errorf("card not written: %v", err)
	}

	// The cover section shows the effect-processed gray placeholder, not the
	// card background.
	bg := theme.ForVariant(theme.Anime).Secondary
	for _, pt := range []image.Point{{225, 150}, {675, 150}, {450, 100}} {
		got := card.Image.NRGBAAt(pt.X, pt.Y)
		if got == bg {
			t.Errorf("cover pixel %v = background %v", pt, bg)
			continue
		}
		lo := min(got.R, got.G, got.B)
		hi := max(got.R, got.G, got.B)
		if lo < 96 || hi-lo > 48 {
			t.Errorf("cover pixel %v = %v, want light gray", pt, got)
		}
	}
}

func TestRenderWriteFailure(t *testing.T) {
	cfg := testConfig(t)
	r := newTestRenderer(t, cfg)

	// Output directory replaced by a regular file after construction.
	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.OutputDir, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	rec := testRecord(9)
	card, err := r.Render(context.Background(), &rec, "")
	if !errors.Is(err, errors.ErrCodeEncodeWrite) {
		t.Fatalf("Render error = %v, want ENCODE_WRITE", err)
	}
	if card != nil {
		t.Errorf("card = %+v, want nil", card)
	}
}

func TestRenderBatchWriteFailureIsolated(t *testing.T) {
	cfg := testConfig(t)
	r := newTestRenderer(t, cfg)

	// A directory squatting on record 2's file name makes only its rename fail.
	if err := os.Mkdir(filepath.Join(cfg.OutputDir, FileName(2, fixedTime)), 0755); err != nil {
		t.Fatal(err)
	}
	out := r.RenderBatch(context.Background(), []record.Work{testRecord(1), testRecord(2), testRecord(3)}, "")

	for i, o := range out {
		if o.RecordID == 2 {
			if !errors.Is(o.Err, errors.ErrCodeEncodeWrite) {
				t.Errorf("outcome %d error = %v, want ENCODE_WRITE", i, o.Err)
			}
			continue
		}
		if o.Err != nil {
			t.Errorf("outcome %d (record %d) failed: %v", i, o.RecordID, o.Err)
			continue
		}
		if _, err := os.Stat(o.Card.Path); err != nil {
			t.Errorf("record %d not written: %v", o.RecordID, err)
		}
	}

	leftovers, err := filepath.Glob(filepath.Join(cfg.OutputDir, ".card-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
}

// placeholderAvatar degrades only the avatar.
type placeholderAvatar struct{ staticFetcher }

func (f *placeholderAvatar) Fetch(ctx context.Context, url string) assets.Asset {
	if url == "https://img.example.com/avatar.png" {
		return assets.Asset{
			Image:       assets.Placeholder(),
			Placeholder: true,
			Cause:       errors.New(errors.ErrCodeAssetUnavailable, "gone"),
		}
	}
	return f.staticFetcher.Fetch(ctx, url)
}

func TestRenderAvatarUnavailable(t *testing.T) {
	f := &placeholderAvatar{staticFetcher{size: image.Pt(900, 600)}}
	r := newTestRenderer(t, testConfig(t), WithFetcher(f))
	rec := testRecord(4)
	rec.AvatarURL = "https://img.example.com/avatar.png"
	card, err := r.Render(context.Background(), &rec, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(card.Degraded) != 1 || card.Degraded[0] != AssetAvatar {
		t.Errorf("Degraded = %v, want [avatar]", card.Degraded)
	}
}

func TestRenderIndexesCard(t *testing.T) {
	s := store.NewMemoryStore()
	r := newTestRenderer(t, testConfig(t), WithStore(s))
	rec := testRecord(11)
	card, err := r.Render(context.Background(), &rec, "")
	if err != nil {
		t.Fatal(err)
	}
	e, err := s.Get(context.Background(), 11, fixedTime)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.Path != card.Path || e.Width != card.Image.Bounds().Dx() || e.Height != card.Image.Bounds().Dy() {
		t.Errorf("entry = %+v, card path %s size %v", e, card.Path, card.Image.Bounds())
	}
	if e.BatchID != "" {
		t.Errorf("single render has batch id %q", e.BatchID)
	}

	// Same record in the same second overwrites the file; the index keeps
	// the first entry and the render still succeeds.
	if _, err := r.Render(context.Background(), &rec, ""); err != nil {
		t.Errorf("re-render in same second: %v", err)
	}
}

func TestRenderBatch(t *testing.T) {
	s := store.NewMemoryStore()
	cfg := testConfig(t)
	cfg.Concurrency = 2
	r := newTestRenderer(t, cfg, WithStore(s))

	recs := []record.Work{testRecord(1), testRecord(2), testRecord(0), testRecord(4), testRecord(5)}
	recs[2].Title = "broken"
	out := r.RenderBatch(context.Background(), recs, "")

	if len(out) != len(recs) {
		t.Fatalf("got %d outcomes, want %d", len(out), len(recs))
	}
	for i, o := range out {
		if o.RecordID != recs[i].ID {
			t.Errorf("outcome %d has record %d, want %d", i, o.RecordID, recs[i].ID)
		}
		if i == 2 {
			if !errors.Is(o.Err, errors.ErrCodeMalformedRecord) || o.Card != nil {
				t.Errorf("outcome %d = %+v, want MALFORMED_RECORD", i, o)
			}
			continue
		}
		if o.Err != nil || o.Card == nil {
			t.Errorf("outcome %d failed: %v", i, o.Err)
			continue
		}
		e, err := s.Get(context.Background(), o.RecordID, fixedTime)
		if err != nil {
			t.Errorf("record %d not indexed: %v", o.RecordID, err)
			continue
		}
		if e.BatchID == "" {
			t.Errorf("record %d indexed without batch id", o.RecordID)
		}
	}
}

func TestRenderBatchEmpty(t *testing.T) {
	r := newTestRenderer(t, testConfig(t))
	if out := r.RenderBatch(context.Background(), nil, ""); len(out) != 0 {
		t.Errorf("got %d outcomes for empty batch", len(out))
	}
}

func TestRenderBatchCancelled(t *testing.T) {
	r := newTestRenderer(t, testConfig(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := r.RenderBatch(ctx, []record.Work{testRecord(1), testRecord(2)}, "")
	for i, o := range out {
		if o.Err == nil {
			t.Errorf("outcome %d succeeded after cancellation", i)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	var c Config
	c.SetDefaults()
	if c.CornerRadius != 0 {
		t.Errorf("SetDefaults changed CornerRadius to %d", c.CornerRadius)
	}
	if c.MinWidth != DefaultMinWidth || c.MaxWidth != DefaultMaxWidth || c.Concurrency != DefaultConcurrency {
		t.Errorf("defaults = %+v", c)
	}
	if d := DefaultConfig(); d.CornerRadius != DefaultCornerRadius {
		t.Errorf("DefaultConfig CornerRadius = %d", d.CornerRadius)
	}

	c = Config{MinWidth: 2000}
	c.SetDefaults()
	if c.MaxWidth != 2000 {
		t.Errorf("MaxWidth = %d, want raised to MinWidth", c.MaxWidth)
	}
}
